// Package bitio converts between the codec's logical bit strings ('0'/'1'
// bytes) and the packed binary form stored in the data artifact.
package bitio

import "fmt"

// Pack folds a logical bit string into bytes, MSB first. The final byte is
// zero-padded on the low side; callers must persist the exact bit count to
// strip the padding on the way back.
func Pack(bits string) ([]byte, error) {
	out := make([]byte, (len(bits)+7)/8)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '1':
			out[i/8] |= 1 << uint(7-i%8)
		case '0':
		default:
			return nil, fmt.Errorf("bitio: byte %q at offset %d is not a bit", bits[i], i)
		}
	}
	return out, nil
}

// Unpack expands packed bytes back into a logical bit string of exactly
// nbits bits. A bit count that does not fit the buffer is an error rather
// than a silent truncation.
func Unpack(data []byte, nbits int) (string, error) {
	if nbits < 0 {
		return "", fmt.Errorf("bitio: negative bit count %d", nbits)
	}
	if nbits > len(data)*8 {
		return "", fmt.Errorf("bitio: bit count %d exceeds buffer of %d bytes", nbits, len(data))
	}
	if nbits <= (len(data)-1)*8 && len(data) > 0 {
		return "", fmt.Errorf("bitio: bit count %d leaves %d unused bytes", nbits, len(data)-(nbits+7)/8)
	}

	out := make([]byte, nbits)
	for i := 0; i < nbits; i++ {
		if data[i/8]&(1<<uint(7-i%8)) != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out), nil
}
