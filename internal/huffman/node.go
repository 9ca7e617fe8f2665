package huffman

// Node is one node of a Huffman code tree. A leaf holds exactly one symbol;
// an internal node holds no symbol and always has both children. The JSON
// shape is the persisted tree-artifact representation, so field layout is
// part of the on-disk format.
type Node struct {
	Leaf   bool  `json:"leaf"`
	Symbol rune  `json:"symbol"`
	Freq   int   `json:"freq"`
	Left   *Node `json:"left,omitempty"`
	Right  *Node `json:"right,omitempty"`
}

// Valid reports whether the tree rooted at n is structurally sound:
// every leaf has no children and every internal node has exactly two.
// Used when loading a persisted tree, since decode correctness depends
// entirely on the reconstructed shape.
func (n *Node) Valid() bool {
	if n == nil {
		return false
	}
	if n.Leaf {
		return n.Left == nil && n.Right == nil
	}
	if n.Left == nil || n.Right == nil {
		return false
	}
	return n.Left.Valid() && n.Right.Valid()
}
