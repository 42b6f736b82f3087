package sstype_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/pdbtest"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/logger"
	"github.com/andrew-torda/fragmatch/pkg/relation"
	. "github.com/andrew-torda/fragmatch/pkg/sstype"
)

type Xyz = cmmn.Xyz

func classify(t *testing.T, res []cmmn.Residue) *Graph {
	t.Helper()
	cfg := config.Default()
	set, err := cv.Compute("tst", res, cfg.CV)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Classify(set, relation.Build(set, cfg.Relation), cfg.SSType, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func cat(pieces ...[]cmmn.Residue) []cmmn.Residue {
	var out []cmmn.Residue
	for _, p := range pieces {
		out = append(out, p...)
	}
	return out
}

func TestHelix(t *testing.T) {
	g := classify(t, pdbtest.Helix("tst", "A", 1, 12, Xyz{}, Xyz{Z: 1}))
	if s := g.Labels(); s != strings.Repeat("H", 12) {
		t.Errorf("got %s", s)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].SS != Helix || len(g.Nodes[0].CVs) != 10 {
		t.Errorf("nodes %+v", g.Nodes)
	}
}

func TestStrand(t *testing.T) {
	g := classify(t, pdbtest.Strand("tst", "A", 1, 10, Xyz{}, Xyz{Y: 1}, Xyz{X: 1}))
	if s := g.Labels(); s != strings.Repeat("E", 10) {
		t.Errorf("got %s", s)
	}
	if !cmp.Equal(g.Unassigned, []int{0}) || g.Nodes[0].SheetID != 0 {
		t.Errorf("a lonely strand should have no sheet, %v", g.Unassigned)
	}
}

func TestCoil(t *testing.T) {
	g := classify(t, pdbtest.Coil("tst", "A", 1, 10, Xyz{}, Xyz{X: 1}))
	if s := g.Labels(); s != strings.Repeat("C", 10) {
		t.Errorf("got %s", s)
	}
}

// sheet is two antiparallel strands side by side and a helix well away.
func sheet() []cmmn.Residue {
	return cat(
		pdbtest.Strand("tst", "A", 1, 8, Xyz{}, Xyz{Y: 1}, Xyz{X: 1}),
		pdbtest.Strand("tst", "A", 20, 8, Xyz{X: 4.8, Y: 7 * pdbtest.StrandRise}, Xyz{Y: -1}, Xyz{X: -1}),
		pdbtest.Helix("tst", "A", 40, 10, Xyz{X: 40}, Xyz{Z: 1}),
	)
}

func TestSheet(t *testing.T) {
	g := classify(t, sheet())
	want := strings.Repeat("E", 16) + strings.Repeat("H", 10)
	if s := g.Labels(); s != want {
		t.Errorf("got  %s\nwant %s", s, want)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("wanted 3 fragments, got %d", len(g.Nodes))
	}
	if g.Nodes[0].SheetID != 1 || g.Nodes[1].SheetID != 1 || len(g.Unassigned) != 0 {
		t.Errorf("strands should share sheet 1, got %d %d", g.Nodes[0].SheetID, g.Nodes[1].SheetID)
	}
	if !cmp.Equal(g.Strands(1), []int{0, 1}) {
		t.Errorf("sheet 1 has %v", g.Strands(1))
	}
	e01, ok := g.Edge(1, 0)
	if !ok || e01.NPair != 36 || e01 != g.Edges[[2]int{0, 1}] {
		t.Errorf("edge %+v", e01)
	}
	e02, _ := g.Edge(0, 2)
	if e02.Weight <= e01.Weight {
		t.Errorf("helix should be further away than the other strand %g %g", e02.Weight, e01.Weight)
	}
	if len(g.Edges) != 3 {
		t.Errorf("%d edges for 3 nodes", len(g.Edges))
	}
}

func TestSpanningTree(t *testing.T) {
	// strand, strand, helix, and a second helix next to the first
	res := cat(sheet(), pdbtest.Helix("tst", "A", 60, 10, Xyz{X: 50}, Xyz{Z: 1}))
	g := classify(t, res)
	if len(g.Nodes) != 4 {
		t.Fatalf("got %d fragments, labels %s", len(g.Nodes), g.Labels())
	}
	tree := g.SpanningTree()
	if len(tree) != 3 {
		t.Fatalf("tree %v", tree)
	}
	has := func(e [2]int) bool {
		for _, x := range tree {
			if x == e {
				return true
			}
		}
		return false
	}
	if !has([2]int{0, 1}) || !has([2]int{2, 3}) {
		t.Errorf("tree %v is missing a short edge", tree)
	}
	var total float64
	for _, e := range tree {
		w, _ := g.Edge(e[0], e[1])
		total += w.Weight
	}
	// every other spanning tree on 4 nodes must weigh at least as much,
	// try the stars
	for c := 0; c < 4; c++ {
		var star float64
		for v := 0; v < 4; v++ {
			if v != c {
				w, _ := g.Edge(c, v)
				star += w.Weight
			}
		}
		if star < total-1e-9 {
			t.Errorf("star at %d weighs %g, tree %g", c, star, total)
		}
	}
}

func TestAmbiguousLogged(t *testing.T) {
	cfg := config.Default()
	res := pdbtest.Strand("lonely", "A", 1, 10, Xyz{}, Xyz{Y: 1}, Xyz{X: 1})
	set, _ := cv.Compute("lonely", res, cfg.CV)
	var b bytes.Buffer
	if _, err := Classify(set, relation.Build(set, cfg.Relation), cfg.SSType, logger.New(false, &b)); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); !strings.Contains(s, ErrAmbiguousSheet.Error()) || !strings.Contains(s, "structure=lonely") {
		t.Errorf("log was %q", s)
	}
}

func TestMismatchedMatrix(t *testing.T) {
	cfg := config.Default()
	a, _ := cv.Compute("a", pdbtest.Helix("a", "A", 1, 8, Xyz{}, Xyz{Z: 1}), cfg.CV)
	b, _ := cv.Compute("b", pdbtest.Helix("b", "A", 1, 8, Xyz{}, Xyz{Z: 1}), cfg.CV)
	if _, err := Classify(a, relation.Build(b, cfg.Relation), cfg.SSType, nil); err == nil {
		t.Error("expected an error")
	}
	if _, err := Classify(nil, nil, cfg.SSType, nil); err == nil {
		t.Error("expected an error")
	}
}

func TestPrunedMatrix(t *testing.T) {
	// Pruning, or only neighbours, must not change the answer.
	cfg := config.Default()
	set, _ := cv.Compute("tst", sheet(), cfg.CV)
	full, _ := Classify(set, relation.Build(set, config.Relation{}), cfg.SSType, nil)
	for _, rc := range []config.Relation{cfg.Relation, {MaxDistance: 6}, {AdjacentOnly: true}} {
		g, err := Classify(set, relation.Build(set, rc), cfg.SSType, nil)
		if err != nil {
			t.Fatal(err)
		}
		if g.Labels() != full.Labels() || g.Nodes[1].SheetID != full.Nodes[1].SheetID {
			t.Errorf("%+v gave %s", rc, g.Labels())
		}
	}
}

func TestString(t *testing.T) {
	if Helix.String() != "helix" || HardCoil.String() != "COIL" || Strand.Letter() != 'E' || HardCoil.Letter() != 'C' {
		t.Error("names")
	}
}
