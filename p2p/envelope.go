// Package p2p implements RillCoin's gossip and request-response wire
// envelopes (spec.md §6's "gossip messages" and "request-response").
// It is transport-agnostic: WriteMessage/ReadMessage operate on any
// io.Writer/io.Reader, so the actual transport (libp2p, a raw TCP
// socket, an in-memory pipe in tests) is out of scope here, matching
// SPEC_FULL.md's module layout note.
package p2p

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode"

	"github.com/rillcoin/rilld/crypto"
)

const (
	// TransportPrefixBytes is the fixed header length for every message:
	// 4-byte magic + 12-byte command + 4-byte payload length + 4-byte
	// checksum prefix.
	TransportPrefixBytes = 24
	CommandBytes          = 12

	// MaxRelayMsgBytes bounds a single message's payload.
	MaxRelayMsgBytes = 8_388_608
)

// Magic is RillCoin's wire-protocol magic, spelled out in spec.md's
// constants table as the ASCII bytes "RILL".
var Magic = binary.BigEndian.Uint32([]byte("RILL"))

type Message struct {
	Magic   uint32
	Command string
	Payload []byte
}

// ReadError conveys how the caller should treat a malformed message:
// whether to penalize the peer's ban score and whether to disconnect.
type ReadError struct {
	Err           error
	BanScoreDelta int
	Disconnect    bool
}

func (e *ReadError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func checksum4(payload []byte) [4]byte {
	h := crypto.Blake3_256(payload)
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

func encodeCommand(cmd string) ([CommandBytes]byte, error) {
	var out [CommandBytes]byte
	if cmd == "" {
		return out, fmt.Errorf("p2p: empty command")
	}
	if len(cmd) > CommandBytes {
		return out, fmt.Errorf("p2p: command too long")
	}
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		if c >= 0x80 || c == 0x00 || !unicode.IsPrint(rune(c)) {
			return out, fmt.Errorf("p2p: command contains non-printable ASCII")
		}
		out[i] = c
	}
	return out, nil
}

func decodeCommand(b [CommandBytes]byte) (string, error) {
	n := CommandBytes
	for i := 0; i < CommandBytes; i++ {
		if b[i] == 0x00 {
			n = i
			break
		}
	}
	for i := n; i < CommandBytes; i++ {
		if b[i] != 0x00 {
			return "", fmt.Errorf("p2p: command not NUL-right-padded")
		}
	}
	cmd := string(b[:n])
	if cmd == "" {
		return "", fmt.Errorf("p2p: empty command")
	}
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		if c >= 0x80 || c == 0x00 || !unicode.IsPrint(rune(c)) {
			return "", fmt.Errorf("p2p: command contains non-printable ASCII")
		}
	}
	return cmd, nil
}

// WriteMessage writes one framed message to w.
func WriteMessage(w io.Writer, magic uint32, command string, payload []byte) error {
	cmd12, err := encodeCommand(command)
	if err != nil {
		return err
	}
	if uint64(len(payload)) > MaxRelayMsgBytes {
		return fmt.Errorf("p2p: payload too large")
	}
	c4 := checksum4(payload)

	var hdr [TransportPrefixBytes]byte
	binary.BigEndian.PutUint32(hdr[0:4], magic)
	copy(hdr[4:16], cmd12[:])
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(len(payload)))
	copy(hdr[20:24], c4[:])

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err = w.Write(payload)
	return err
}

// ReadMessage reads exactly one framed message from r.
//
// Policy: short header read, magic mismatch or oversize payload =>
// disconnect, no ban; truncated payload => disconnect and add ban score;
// checksum mismatch or malformed command => drop the message and add ban
// score, but keep the connection.
func ReadMessage(r io.Reader, expectedMagic uint32) (*Message, *ReadError) {
	var hdr [TransportPrefixBytes]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, &ReadError{Err: err, Disconnect: true}
	}

	magic := binary.BigEndian.Uint32(hdr[0:4])
	if magic != expectedMagic {
		return nil, &ReadError{Err: fmt.Errorf("p2p: magic mismatch"), Disconnect: true}
	}

	var cmdBytes [CommandBytes]byte
	copy(cmdBytes[:], hdr[4:16])
	cmd, err := decodeCommand(cmdBytes)
	if err != nil {
		return nil, &ReadError{Err: err, BanScoreDelta: 10}
	}

	payloadLen := binary.LittleEndian.Uint32(hdr[16:20])
	if payloadLen > MaxRelayMsgBytes {
		return nil, &ReadError{Err: fmt.Errorf("p2p: payload_length exceeds MaxRelayMsgBytes"), Disconnect: true}
	}

	var expectedC4 [4]byte
	copy(expectedC4[:], hdr[20:24])

	payload := make([]byte, int(payloadLen))
	if payloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, &ReadError{Err: err, BanScoreDelta: 20, Disconnect: true}
		}
	}

	if computed := checksum4(payload); !bytes.Equal(expectedC4[:], computed[:]) {
		return nil, &ReadError{Err: fmt.Errorf("p2p: checksum mismatch"), BanScoreDelta: 10}
	}

	return &Message{Magic: magic, Command: cmd, Payload: payload}, nil
}
