package consensus

import "encoding/binary"

// addUint64 returns a+b, or an error if the addition would overflow uint64.
func addUint64(a, b uint64) (uint64, error) {
	if b > ^uint64(0)-a {
		return 0, txerr(TxErrValueOverflow, "u64 addition overflow")
	}
	return a + b, nil
}

// subUint64 returns a-b, or an error if b > a.
func subUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, txerr(TxErrValueOverflow, "u64 subtraction underflow")
	}
	return a - b, nil
}

// maxIntAsUint64 returns the maximum value representable by the built-in
// int type, expressed as a uint64.
func maxIntAsUint64() uint64 {
	return uint64(^uint(0) >> 1)
}

// toIntLen converts v to an int, rejecting values that would not fit.
func toIntLen(v uint64, name string) (int, error) {
	if v > maxIntAsUint64() {
		return 0, txerr(TxErrParse, "length overflows int: "+name)
	}
	return int(v), nil
}

func AppendU16le(dst []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU32le(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU64le(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

func readU8(b []byte, off *int) (byte, error) {
	if *off >= len(b) {
		return 0, txerr(TxErrParse, "truncated: u8")
	}
	v := b[*off]
	*off++
	return v, nil
}

func readU16le(b []byte, off *int) (uint16, error) {
	if *off+2 > len(b) {
		return 0, txerr(TxErrParse, "truncated: u16")
	}
	v := binary.LittleEndian.Uint16(b[*off : *off+2])
	*off += 2
	return v, nil
}

func readU32le(b []byte, off *int) (uint32, error) {
	if *off+4 > len(b) {
		return 0, txerr(TxErrParse, "truncated: u32")
	}
	v := binary.LittleEndian.Uint32(b[*off : *off+4])
	*off += 4
	return v, nil
}

func readU64le(b []byte, off *int) (uint64, error) {
	if *off+8 > len(b) {
		return 0, txerr(TxErrParse, "truncated: u64")
	}
	v := binary.LittleEndian.Uint64(b[*off : *off+8])
	*off += 8
	return v, nil
}

func readHash256(b []byte, off *int) (Hash256, error) {
	var h Hash256
	if *off+32 > len(b) {
		return h, txerr(TxErrParse, "truncated: hash256")
	}
	copy(h[:], b[*off:*off+32])
	*off += 32
	return h, nil
}

func readBytes(b []byte, off *int, n int) ([]byte, error) {
	if n < 0 || *off+n > len(b) {
		return nil, txerr(TxErrParse, "truncated: byte slice")
	}
	out := append([]byte(nil), b[*off:*off+n]...)
	*off += n
	return out, nil
}
