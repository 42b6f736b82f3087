package sstype

import (
	"math"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
)

// Tertiary describes how two fragments sit relative to each other.
// Angle, Distance and AngleDistance are means over every pair of CVs,
// one from each fragment.
type Tertiary struct {
	Angle         float64
	Distance      float64
	AngleDistance float64
	Weight        float64 // for the spanning tree, the mean distance
	NPair         int     // 0 if a fragment has no CVs, then Distance is between CA centroids
}

// Graph has every fragment as a node and an edge between every pair.
type Graph struct {
	StructID   string
	Nodes      []Fragment
	Edges      map[[2]int]Tertiary // key is {i, j}, i < j
	Unassigned []int               // strands without a sheet
}

// Edge returns the edge between fragments i and j in either order.
func (g *Graph) Edge(i, j int) (Tertiary, bool) {
	if i > j {
		i, j = j, i
	}
	t, ok := g.Edges[[2]int{i, j}]
	return t, ok
}

// caCentroid is the mean CA of residues [start, end).
func caCentroid(res []cmmn.Residue, start, end int) cmmn.Xyz {
	pts := make([]cmmn.Xyz, 0, end-start)
	for k := start; k < end; k++ {
		if a, ok := res[k].Atom("CA"); ok {
			pts = append(pts, a.Xyz)
		}
	}
	return geom.Mean(pts)
}

func newGraph(c *classifier, frags []Fragment) *Graph {
	g := &Graph{
		StructID: c.set.StructID,
		Nodes:    frags,
		Edges:    make(map[[2]int]Tertiary, len(frags)*(len(frags)-1)/2),
	}
	for n := range frags {
		if frags[n].SS == Strand && frags[n].SheetID == 0 {
			g.Unassigned = append(g.Unassigned, n)
		}
	}
	for a := range frags {
		for b := a + 1; b < len(frags); b++ {
			g.Edges[[2]int{a, b}] = c.tertiary(&frags[a], &frags[b])
		}
	}
	return g
}

func (c *classifier) tertiary(fa, fb *Fragment) Tertiary {
	var t Tertiary
	for _, i := range fa.CVs {
		for _, j := range fb.CVs {
			r := c.rel(i, j)
			t.Angle += math.Abs(r.Angle)
			t.Distance += r.Distance
			t.AngleDistance += r.AngleDistance
			t.NPair++
		}
	}
	if t.NPair == 0 {
		res := c.set.Residues
		t.Distance, _ = geom.Distance(caCentroid(res, fa.Start, fa.End), caCentroid(res, fb.Start, fb.End))
		t.Weight = t.Distance
		return t
	}
	f := 1 / float64(t.NPair)
	t.Angle *= f
	t.Distance *= f
	t.AngleDistance *= f
	t.Weight = t.Distance
	return t
}

// SpanningTree returns the edges of a minimum spanning tree over edge
// weights, built with Prim's method. Edges come back as {i, j}, i < j,
// in the order they were added.
func (g *Graph) SpanningTree() [][2]int {
	n := len(g.Nodes)
	if n < 2 {
		return nil
	}
	in := make([]bool, n)
	best := make([]float64, n)
	from := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
		from[i] = -1
	}
	best[0] = 0
	tree := make([][2]int, 0, n-1)
	for k := 0; k < n; k++ {
		u := -1
		for v := 0; v < n; v++ {
			if !in[v] && (u < 0 || best[v] < best[u]) {
				u = v
			}
		}
		in[u] = true
		if from[u] >= 0 {
			tree = append(tree, [2]int{min(u, from[u]), max(u, from[u])})
		}
		for v := 0; v < n; v++ {
			if in[v] {
				continue
			}
			if e, ok := g.Edge(u, v); ok && e.Weight < best[v] {
				best[v], from[v] = e.Weight, u
			}
		}
	}
	return tree
}

// Strands returns the strand fragments of one sheet.
func (g *Graph) Strands(sheet int) []int {
	var out []int
	for n := range g.Nodes {
		if g.Nodes[n].SS == Strand && g.Nodes[n].SheetID == sheet {
			out = append(out, n)
		}
	}
	return out
}
