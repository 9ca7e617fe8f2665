package huffman

import (
	"container/heap"
	"errors"
	"sort"
)

// ErrNoInput is returned when the builder or codec is given nothing to work
// with. Callers decide whether that is a hard failure (compressing an empty
// folder) or something to short-circuit.
var ErrNoInput = errors.New("huffman: no input data")

// Frequencies counts occurrences of each distinct symbol in data.
func Frequencies(data []rune) map[rune]int {
	freq := make(map[rune]int)
	for _, r := range data {
		freq[r]++
	}
	return freq
}

// heapItem wraps a node with a monotonic insertion sequence number. The
// sequence breaks frequency ties so the same frequency table always builds
// the same tree regardless of map iteration order.
type heapItem struct {
	node *Node
	seq  int
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].node.Freq != h[j].node.Freq {
		return h[i].node.Freq < h[j].node.Freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x interface{}) {
	*h = append(*h, x.(heapItem))
}

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Build constructs a Huffman code tree from a frequency table.
//
// Leaves are seeded in ascending symbol order, then the two lowest-frequency
// nodes are repeatedly merged into an internal node until one root remains.
// The first node extracted becomes the left child. A table with a single
// distinct symbol yields a lone leaf as root; the codec handles that shape
// explicitly.
func Build(freq map[rune]int) (*Node, error) {
	if len(freq) == 0 {
		return nil, ErrNoInput
	}

	symbols := make([]rune, 0, len(freq))
	for r := range freq {
		symbols = append(symbols, r)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	seq := 0
	h := make(nodeHeap, 0, len(symbols))
	for _, r := range symbols {
		h = append(h, heapItem{
			node: &Node{Leaf: true, Symbol: r, Freq: freq[r]},
			seq:  seq,
		})
		seq++
	}
	heap.Init(&h)

	for h.Len() > 1 {
		left := heap.Pop(&h).(heapItem)
		right := heap.Pop(&h).(heapItem)
		heap.Push(&h, heapItem{
			node: &Node{
				Freq:  left.node.Freq + right.node.Freq,
				Left:  left.node,
				Right: right.node,
			},
			seq: seq,
		})
		seq++
	}

	return h[0].node, nil
}
