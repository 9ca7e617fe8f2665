package huffman

// Codes derives the prefix code table from a tree by depth-first traversal:
// descending left appends '0', right appends '1', and a leaf records the
// accumulated path as its symbol's code.
//
// A single-leaf root gets the explicit convention code "0" — a bare traversal
// would assign the empty string, which cannot be decoded unambiguously.
func Codes(root *Node) map[rune]string {
	codes := make(map[rune]string)
	if root == nil {
		return codes
	}
	if root.Leaf {
		codes[root.Symbol] = "0"
		return codes
	}

	var walk func(n *Node, path string)
	walk = func(n *Node, path string) {
		if n.Leaf {
			codes[n.Symbol] = path
			return
		}
		walk(n.Left, path+"0")
		walk(n.Right, path+"1")
	}
	walk(root, "")

	return codes
}
