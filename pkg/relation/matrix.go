package relation

import (
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
)

// Bound is a run of valid, continuous CVs [Start, End).
type Bound struct{ Start, End int }

func (b Bound) Len() int { return b.End - b.Start }

// storage layouts
const (
	dense    = iota // slot for every i <= j
	adjacent        // slot for (i, i+1) only
	sparse          // map, when pruning throws most pairs away
)

// Matrix holds relations for i <= j. Relations live in one arena. A
// slot table or, when pruned, a map says where.
type Matrix struct {
	Set    *cv.Set
	Bounds []Bound
	arena  []Relation
	layout int
	slot   []int32
	idx    map[uint64]int32
	runOf  []int // bound of each CV, -1 for invalid CVs
}

// triIndex is the position of (i, j), i <= j, in a packed upper
// triangle of an n by n matrix.
func triIndex(i, j, n int) int { return i*n - i*(i-1)/2 + (j - i) }

func key(i, j int) uint64 { return uint64(i)<<32 | uint64(uint32(j)) }

// Len is the number of relations stored.
func (m *Matrix) Len() int { return len(m.arena) }

// All returns the stored relations. Callers must not change them.
func (m *Matrix) All() []Relation { return m.arena }

// Get returns the relation of CVs i and j in either order. The stored
// relation always has I <= J. nil means it was never computed or was
// pruned.
func (m *Matrix) Get(i, j int) *Relation {
	if i > j {
		i, j = j, i
	}
	n := len(m.Set.CVs)
	if i < 0 || j >= n {
		return nil
	}
	var s int32 = -1
	switch m.layout {
	case dense:
		s = m.slot[triIndex(i, j, n)]
	case adjacent:
		if j == i+1 {
			s = m.slot[i]
		}
	case sparse:
		if v, ok := m.idx[key(i, j)]; ok {
			s = v
		}
	}
	if s < 0 {
		return nil
	}
	return &m.arena[s]
}

// BoundOf gives the bound CV i is in, or -1 if the CV is invalid.
func (m *Matrix) BoundOf(i int) int { return m.runOf[i] }

// Continuity of CVs i and j, as in Relation.
func (m *Matrix) Continuity(i, j int) int {
	if i > j {
		i, j = j, i
	}
	if m.runOf[i] < 0 || m.runOf[i] != m.runOf[j] {
		return NoContinuity
	}
	return j - i
}

// Bounds splits the valid CVs into maximal runs. Neighbouring valid
// windows share all but one residue, so they are always continuous.
func Bounds(set *cv.Set) ([]Bound, []int) {
	var bb []Bound
	runOf := make([]int, len(set.CVs))
	for i := range set.CVs {
		if !set.CVs[i].Valid() {
			runOf[i] = -1
			continue
		}
		if i == 0 || runOf[i-1] < 0 {
			bb = append(bb, Bound{Start: i})
		}
		runOf[i] = len(bb) - 1
		bb[len(bb)-1].End = i + 1
	}
	return bb, runOf
}

// keep says if a relation survives pruning. The diagonal always does.
func keep(r *Relation, cfg *config.Relation) bool {
	if r.I == r.J {
		return true
	}
	if cfg.MaxDistance > 0 && r.Distance > cfg.MaxDistance {
		return false
	}
	if cfg.MaxStrandDistance > 0 && r.Guess[0] == Strand && r.Guess[1] == Strand &&
		r.Distance > cfg.MaxStrandDistance {
		return false
	}
	return true
}

// Build computes relations between the valid CVs of set. Invalid
// windows get nothing. Relations are pruned before they are stored, so
// a pruned matrix of a big structure stays small.
func Build(set *cv.Set, cfg config.Relation) *Matrix {
	n := len(set.CVs)
	m := &Matrix{Set: set}
	m.Bounds, m.runOf = Bounds(set)
	pruned := cfg.MaxDistance > 0 || cfg.MaxStrandDistance > 0
	switch {
	case cfg.AdjacentOnly:
		m.layout = adjacent
		m.slot = make([]int32, n)
		m.arena = make([]Relation, 0, n)
	case pruned:
		m.layout = sparse
		m.idx = make(map[uint64]int32, 8*n)
		m.arena = make([]Relation, 0, 8*n)
	default:
		m.layout = dense
		m.slot = make([]int32, n*(n+1)/2)
		m.arena = make([]Relation, 0, n*(n+1)/2)
	}
	for i := range m.slot {
		m.slot[i] = -1
	}

	cvs := set.CVs
	for i := 0; i < n; i++ {
		if !cvs[i].Valid() {
			continue
		}
		jmax := n - 1
		if cfg.AdjacentOnly {
			jmax = min(i+1, n-1)
		}
		for j := i; j <= jmax; j++ {
			if !cvs[j].Valid() || (cfg.AdjacentOnly && j == i) {
				continue
			}
			r := Compute(&cvs[i], &cvs[j], m.Continuity(i, j), cfg.Signed)
			if !keep(&r, &cfg) {
				continue
			}
			s := int32(len(m.arena))
			m.arena = append(m.arena, r)
			switch m.layout {
			case dense:
				m.slot[triIndex(i, j, n)] = s
			case adjacent:
				m.slot[i] = s
			case sparse:
				m.idx[key(i, j)] = s
			}
		}
	}
	return m
}
