package wasmtov

import (
	"bytes"
	"fmt"
)

func readVarU32(r *bytes.Reader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("wasmtov: truncated varuint: %w", err)
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, fmt.Errorf("wasmtov: varuint32 too long")
		}
	}
}

func readVarI32(r *bytes.Reader) (int32, error) {
	var result int64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("wasmtov: truncated varint: %w", err)
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -(int64(1) << shift)
			}
			return int32(result), nil
		}
		if shift >= 35 {
			return 0, fmt.Errorf("wasmtov: varint32 too long")
		}
	}
}

func readVarI64(r *bytes.Reader) (int64, error) {
	var result int64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("wasmtov: truncated varint: %w", err)
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -(int64(1) << shift)
			}
			return result, nil
		}
		if shift >= 70 {
			return 0, fmt.Errorf("wasmtov: varint64 too long")
		}
	}
}

func readBytes(r *bytes.Reader, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil && n > 0 {
		return nil, fmt.Errorf("wasmtov: truncated byte vector: %w", err)
	}
	return buf, nil
}

func readName(r *bytes.Reader) (string, error) {
	n, err := readVarU32(r)
	if err != nil {
		return "", err
	}
	b, err := readBytes(r, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
