package sstype_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/relation"
	. "github.com/andrew-torda/fragmatch/pkg/sstype"
)

const (
	C = Coil
	H = Helix
	E = Strand
	X = HardCoil
)

func TestClassifyPass(t *testing.T) {
	tests := []struct {
		labels []SS
		pair   SS
		li, lj SS
	}{
		{[]SS{C, C}, H, H, H},
		{[]SS{C, C}, C, C, C},
		{[]SS{E, C}, H, E, H}, // earlier label stays
		{[]SS{H, E}, C, H, E}, // coil pair changes nothing
		{[]SS{C, H}, E, E, E},
	}
	for i, tt := range tests {
		in := append([]SS(nil), tt.labels...)
		li, lj := ClassifyPass(tt.labels, tt.pair, 0)
		if li != tt.li || lj != tt.lj {
			t.Errorf("case %d got %v %v", i, li, lj)
		}
		if !cmp.Equal(in, tt.labels) {
			t.Errorf("case %d changed its input", i)
		}
	}
}

func TestLabelCVs(t *testing.T) {
	pairs := []SS{H, H, C, E, E, C}
	want := []SS{H, H, H, E, E, E, C}
	if got := LabelCVs(pairs, 7); !cmp.Equal(got, want) {
		t.Errorf("got %v", got)
	}
}

func TestPairLabel(t *testing.T) {
	cfg := config.Default().SSType
	tests := []struct {
		h, s float64
		want SS
	}{
		{0.1, 2, H},
		{2, 0.1, E},
		{1.6, 3, C},   // helix too poor
		{0.5, 0.6, C}, // too close to call for helix
		{0.9, 0.5, E},
		{0.7, 0.5, C}, // strand needs a bigger lead
	}
	for _, tt := range tests {
		if got := PairLabel(tt.h, tt.s, &cfg); got != tt.want {
			t.Errorf("h %g s %g gave %v", tt.h, tt.s, got)
		}
	}
}

func TestResolve(t *testing.T) {
	v := func(c, h, e, x int) Votes { return Votes{c, h, e, x} }
	tests := []struct {
		v    Votes
		prev SS
		want SS
	}{
		{v(0, 3, 0, 0), C, H},
		{v(1, 1, 0, 0), C, H}, // helix holds a draw with coil
		{v(1, 1, 1, 0), C, C}, // helix and strand draw
		{v(0, 2, 1, 1), C, H},
		{v(0, 1, 1, 1), C, X}, // hard coil holds its own
		{v(1, 0, 1, 0), C, E},
		{v(1, 0, 1, 0), H, C}, // after helix the draw goes to coil
		{v(2, 0, 1, 0), C, C},
		{v(0, 0, 0, 0), E, C},
	}
	for i, tt := range tests {
		if got := Resolve(tt.v, tt.prev); got != tt.want {
			t.Errorf("case %d %v got %v", i, tt.v, got)
		}
	}
}

func TestMinLength(t *testing.T) {
	labels := []SS{H, H, C, E, E, E, H, H, H, E, E}
	brk := make([]bool, len(labels))
	brk[0], brk[10] = true, true // last strand is cut in two
	MinLength(labels, brk, 3, 3)
	want := []SS{C, C, C, E, E, E, H, H, H, C, C}
	if !cmp.Equal(labels, want) {
		t.Errorf("got %v", labels)
	}
}

func residues(seq string) []cmmn.Residue {
	three := map[byte]string{'A': "ALA", 'G': "GLY", 'P': "PRO"}
	res := make([]cmmn.Residue, len(seq))
	for i := range seq {
		res[i].ID = cmmn.ResID{Chain: "A", Num: i + 1, Name: three[seq[i]]}
	}
	return res
}

func TestPeelGlyPro(t *testing.T) {
	tests := []struct {
		seq    string
		labels []SS
		want   []SS
	}{
		{"AAAGAAA", []SS{H, H, H, H, E, E, E}, []SS{H, H, H, C, E, E, E}}, // end of the first
		{"AAAAPAA", []SS{H, H, H, H, E, E, E}, []SS{H, H, H, H, C, E, E}}, // start of the second
		{"AAAGPAA", []SS{H, H, H, H, E, E, E}, []SS{H, H, H, C, E, E, E}}, // first wins
		{"AAAAAAA", []SS{H, H, H, H, E, E, E}, []SS{H, H, H, H, E, E, E}}, // nothing to peel
		{"AAAGAAA", []SS{H, H, H, H, C, E, E}, []SS{H, H, H, H, C, E, E}}, // coil already there
	}
	for i, tt := range tests {
		brk := make([]bool, len(tt.seq))
		brk[0] = true
		labels := append([]SS(nil), tt.labels...)
		PeelGlyPro(labels, brk, residues(tt.seq))
		if !cmp.Equal(labels, tt.want) {
			t.Errorf("case %d got %v", i, labels)
		}
	}
}

// synthetic builds a CV set straight from window positions and
// directions. CVs listed in broken get the invalid CVL.
func synthetic(ca, dir []cmmn.Xyz, broken ...int) (*cv.Set, *relation.Matrix) {
	n := len(ca)
	set := &cv.Set{StructID: "syn", Window: 3, Residues: make([]cmmn.Residue, n+2)}
	for k := range set.Residues {
		set.Residues[k].ID = cmmn.ResID{Struct: "syn", Chain: "A", Num: k + 1}
	}
	for i := range ca {
		c := cv.CV{Index: i, CVL: 2, CA: ca[i], O: ca[i].Add(dir[i])}
		for k := i; k < i+3; k++ {
			c.Residues = append(c.Residues, set.Residues[k].ID)
		}
		set.CVs = append(set.CVs, c)
	}
	for _, i := range broken {
		set.CVs[i].CVL = cv.InvalidCVL
	}
	return set, relation.Build(set, config.Default().Relation)
}

// fan has CVs 3.8 apart along X, pointing at the given angles in the
// XY plane.
func fan(degrees ...float64) ([]cmmn.Xyz, []cmmn.Xyz) {
	var ca, dir []cmmn.Xyz
	for i, d := range degrees {
		r := d * math.Pi / 180
		ca = append(ca, cmmn.Xyz{X: 3.8 * float64(i)})
		dir = append(dir, cmmn.Xyz{X: math.Cos(r), Y: math.Sin(r)})
	}
	return ca, dir
}

func TestGuard(t *testing.T) {
	cfg := config.Default().SSType
	tests := []struct {
		name    string
		degrees []float64
		broken  []int
		labels  []SS
		want    []SS
	}{
		{"straight helix", []float64{0, 5, 10, 15}, nil, []SS{H, H, H, H}, []SS{H, H, H, H}},
		{"kinked helix", []float64{0, 5, 10, 90}, nil, []SS{H, H, H, H}, []SS{X, H, H, X}},
		{"kink over a break", []float64{0, 5, 10, 90}, []int{1}, []SS{H, H, H, H}, []SS{H, H, H, H}},
		{"kink, labels differ", []float64{0, 5, 10, 90}, nil, []SS{H, H, H, E}, []SS{H, H, H, E}},
		{"strand", []float64{0, 18, 36, 54}, nil, []SS{E, E, E, E}, []SS{E, E, E, E}},
		{"folded strand", []float64{0, 18, 36, 170}, nil, []SS{E, E, E, E}, []SS{X, E, E, X}},
		{"longer kinked helix", []float64{0, 5, 10, 15, 100, 105, 110, 115}, nil,
			[]SS{H, H, H, H, H, H, H, H}, []SS{H, X, X, X, X, X, X, H}},
	}
	for _, tt := range tests {
		ca, dir := fan(tt.degrees...)
		set, mat := synthetic(ca, dir, tt.broken...)
		in := append([]SS(nil), tt.labels...)
		got := Guard(set, mat, cfg, tt.labels)
		if !cmp.Equal(got, tt.want) {
			t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
		}
		if !cmp.Equal(in, tt.labels) {
			t.Errorf("%s: input changed", tt.name)
		}
	}
}

// TestStrandAdjust has two strands side by side, 4.8 apart and facing
// each other, and a third far away. CVs 4 and 5 are broken windows.
func TestStrandAdjust(t *testing.T) {
	var ca, dir []cmmn.Xyz
	for i := 0; i < 16; i++ {
		switch {
		case i < 6: // first strand, 4 and 5 broken
			ca = append(ca, cmmn.Xyz{Y: 3.3 * float64(i)})
			dir = append(dir, cmmn.Xyz{X: 1})
		case i < 10:
			ca = append(ca, cmmn.Xyz{X: 4.8, Y: 3.3 * float64(i-6)})
			dir = append(dir, cmmn.Xyz{X: -1})
		default:
			ca = append(ca, cmmn.Xyz{X: 100, Y: 3.3 * float64(i-10)})
			dir = append(dir, cmmn.Xyz{Z: 1})
		}
	}
	set, mat := synthetic(ca, dir, 4, 5)
	frags := []Fragment{
		{ID: 0, SS: E, Start: 0, End: 5},
		{ID: 1, SS: E, Start: 5, End: 11},
		{ID: 2, SS: E, Start: 11, End: 18},
	}
	cfg := config.Default().SSType
	cfg.ProximityCutoff, cfg.PairingDistance, cfg.ExternalAngleMax = 10, 6, 40
	cfg.MinExternal = 1
	bonus, lone := cfg.PairingBonus, cfg.IsolationPenalty

	// CV 0 has two partners under 6, CV 1 has three.
	for _, tt := range []struct {
		maxPartners int
		cv0, cv1    float64
	}{
		{2, -2 * bonus, -2 * bonus},
		{5, -2 * bonus, -3 * bonus},
		{1, -bonus, -bonus},
	} {
		cfg.MaxPartners = tt.maxPartners
		adj := StrandAdjust(set, mat, cfg, frags)
		if adj[0] != tt.cv0 || adj[1] != tt.cv1 {
			t.Errorf("max partners %d: cv 0 %g, cv 1 %g", tt.maxPartners, adj[0], adj[1])
		}
		if adj[6] != tt.cv0 || adj[7] != tt.cv1 {
			t.Errorf("max partners %d: second strand %g %g", tt.maxPartners, adj[6], adj[7])
		}
		if adj[4] != 0 || adj[5] != 0 {
			t.Errorf("broken windows adjusted %g %g", adj[4], adj[5])
		}
		for i := 10; i < 16; i++ {
			if adj[i] != lone {
				t.Errorf("lonely strand cv %d got %g want %g", i, adj[i], lone)
			}
		}
	}

	cfg.MinExternal = 5
	if adj := StrandAdjust(set, mat, cfg, frags); adj[0] != -bonus+lone {
		t.Errorf("too few neighbours should cost, got %g", adj[0])
	}
}
