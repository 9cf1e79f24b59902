package crypto

import (
	stded25519 "crypto/ed25519"
	stdcrypto "crypto/rand"
)

const (
	PublicKeySize = stded25519.PublicKeySize  // 32
	SignatureSize = stded25519.SignatureSize  // 64
	PrivateKeySize = stded25519.PrivateKeySize // 64
)

// KeyPair is an Ed25519 signing key and its corresponding public key.
type KeyPair struct {
	Private stded25519.PrivateKey
	Public  stded25519.PublicKey
}

// GenerateKeyPair produces a fresh Ed25519 key pair using the OS CSPRNG.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := stded25519.GenerateKey(stdcrypto.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Private: priv, Public: pub}, nil
}

// PubkeyHash returns BLAKE3 over the raw 32-byte public key.
func PubkeyHash(pub []byte) ([32]byte, error) {
	if len(pub) != PublicKeySize {
		return [32]byte{}, cryptoErr(ErrInvalidPublicKey, "public key must be 32 bytes")
	}
	return Blake3_256(pub), nil
}

// Sign produces a 64-byte Ed25519 signature over msg.
func Sign(priv stded25519.PrivateKey, msg [32]byte) []byte {
	return stded25519.Sign(priv, msg[:])
}

// VerifySignature checks that sig is a valid Ed25519 signature by pub over
// msg, and that pub hashes to expectedPubkeyHash. Distinct error kinds are
// returned for malformed public key, malformed signature, pubkey-hash
// mismatch, and signature-does-not-verify.
func VerifySignature(pub []byte, sig []byte, msg [32]byte, expectedPubkeyHash [32]byte) error {
	if len(pub) != PublicKeySize {
		return cryptoErr(ErrInvalidPublicKey, "public key must be 32 bytes")
	}
	if len(sig) != SignatureSize {
		return cryptoErr(ErrInvalidSignature, "signature must be 64 bytes")
	}
	gotHash, err := PubkeyHash(pub)
	if err != nil {
		return err
	}
	if gotHash != expectedPubkeyHash {
		return cryptoErr(ErrPubkeyHashMismatch, "public key does not match utxo pubkey_hash")
	}
	if !stded25519.Verify(pub, msg[:], sig) {
		return cryptoErr(ErrVerificationFailed, "signature does not verify")
	}
	return nil
}
