package boosting

import (
	"math/rand"
	"sort"
)

// minGain is the smallest squared-error reduction accepted for a split.
const minGain = 1e-12

// Node is one tree node. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Leaf reports whether n is terminal.
func (n Node) Leaf() bool { return n.Feature < 0 }

// Tree is a regression tree stored as a flat node slice rooted at index 0.
type Tree struct {
	Nodes []Node
}

// Predict walks x down the tree. Samples equal to a threshold go left.
func (t Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// dataset holds the training columns and their presorted row orders.
type dataset struct {
	cols   [][]float64
	order  [][]int
	nRows  int
	nFeats int
}

func newDataset(cols [][]float64) *dataset {
	d := &dataset{cols: cols, nFeats: len(cols)}
	if len(cols) > 0 {
		d.nRows = len(cols[0])
	}
	d.order = make([][]int, d.nFeats)
	for f, col := range cols {
		idx := make([]int, d.nRows)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return col[idx[a]] < col[idx[b]] })
		d.order[f] = idx
	}
	return d
}

// candidate tracks the best split seen for one open node.
type candidate struct {
	count, sum   float64
	leftN, leftS float64
	prev         float64
	started      bool

	gain      float64
	feature   int
	threshold float64
}

// growTree fits one tree to target level by level. Each level sweeps every
// feature's presorted order once. gains accumulates the squared-error
// reduction per feature.
func growTree(d *dataset, target []float64, p Params, rng *rand.Rand, gains []float64) Tree {
	t := Tree{Nodes: []Node{{Feature: -1}}}
	assign := make([]int, d.nRows)

	open := []int{0}
	for depth := 0; depth < p.MaxDepth && len(open) > 0; depth++ {
		stats := make(map[int]*candidate, len(open))
		for _, id := range open {
			stats[id] = &candidate{feature: -1}
		}
		for i, id := range assign {
			if c, ok := stats[id]; ok {
				c.count++
				c.sum += target[i]
			}
		}
		for id, c := range stats {
			if c.count < float64(p.MinSamplesSplit) {
				delete(stats, id)
			}
		}
		if len(stats) == 0 {
			break
		}

		for _, f := range rng.Perm(d.nFeats) {
			for _, c := range stats {
				c.leftN, c.leftS, c.started = 0, 0, false
			}
			col := d.cols[f]
			for _, i := range d.order[f] {
				c, ok := stats[assign[i]]
				if !ok {
					continue
				}
				v := col[i]
				if c.started && v > c.prev {
					rightN := c.count - c.leftN
					rightS := c.sum - c.leftS
					g := c.leftS*c.leftS/c.leftN + rightS*rightS/rightN - c.sum*c.sum/c.count
					if g > c.gain+minGain {
						c.gain = g
						c.feature = f
						c.threshold = c.prev + (v-c.prev)/2
					}
				}
				c.leftN++
				c.leftS += target[i]
				c.prev = v
				c.started = true
			}
		}

		var next []int
		for _, id := range open {
			c, ok := stats[id]
			if !ok || c.feature < 0 {
				continue
			}
			left, right := len(t.Nodes), len(t.Nodes)+1
			t.Nodes = append(t.Nodes, Node{Feature: -1}, Node{Feature: -1})
			t.Nodes[id] = Node{Feature: c.feature, Threshold: c.threshold, Left: left, Right: right}
			gains[c.feature] += c.gain
			next = append(next, left, right)
		}
		for i, id := range assign {
			n := t.Nodes[id]
			if n.Leaf() {
				continue
			}
			if d.cols[n.Feature][i] <= n.Threshold {
				assign[i] = n.Left
			} else {
				assign[i] = n.Right
			}
		}
		open = next
	}

	sums := make([]float64, len(t.Nodes))
	counts := make([]float64, len(t.Nodes))
	for i, id := range assign {
		sums[id] += target[i]
		counts[id]++
	}
	for id := range t.Nodes {
		if t.Nodes[id].Leaf() && counts[id] > 0 {
			t.Nodes[id].Value = sums[id] / counts[id]
		}
	}
	return t
}
