package huffman

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBits is returned when a bit sequence does not decode cleanly
// against a tree: it ends in the middle of a code, steps to a child that does
// not exist, or contains a byte other than '0' or '1'.
var ErrInvalidBits = errors.New("huffman: malformed bit sequence")

// Encode concatenates the code of every symbol in data, in order, into one
// logical bit string of '0' and '1' bytes.
func Encode(data []rune, codes map[rune]string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoInput
	}

	var b strings.Builder
	for i, r := range data {
		code, ok := codes[r]
		if !ok {
			return "", fmt.Errorf("huffman: symbol %q at position %d has no code", r, i)
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

// Decode walks the tree from the root, consuming one bit per step and
// emitting the leaf symbol reached, then resetting to the root. The bit
// sequence must be an exact concatenation of complete codes; anything else
// is ErrInvalidBits.
//
// A single-leaf root is the degenerate one-symbol tree: every bit must be
// '0' (the documented convention) and each emits the sole symbol.
func Decode(bits string, root *Node) ([]rune, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidBits)
	}

	if root.Leaf {
		out := make([]rune, 0, len(bits))
		for i := 0; i < len(bits); i++ {
			if bits[i] != '0' {
				return nil, fmt.Errorf("%w: unexpected bit %q at offset %d for single-symbol tree", ErrInvalidBits, bits[i], i)
			}
			out = append(out, root.Symbol)
		}
		return out, nil
	}

	var out []rune
	node := root
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			node = node.Left
		case '1':
			node = node.Right
		default:
			return nil, fmt.Errorf("%w: byte %q at offset %d", ErrInvalidBits, bits[i], i)
		}
		if node == nil {
			return nil, fmt.Errorf("%w: no branch for bit at offset %d", ErrInvalidBits, i)
		}
		if node.Leaf {
			out = append(out, node.Symbol)
			node = root
		}
	}
	if node != root {
		return nil, fmt.Errorf("%w: sequence ends mid-code", ErrInvalidBits)
	}

	return out, nil
}
