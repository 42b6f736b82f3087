package cmmn_test

import (
	"testing"

	. "github.com/andrew-torda/fragmatch/pdb/cmmn"
)

func TestXyzOk(t *testing.T) {
	var xyz Xyz
	xyz = BrokenXyz
	if xyz.Ok() {
		t.Error("cannot even check if a value is OK")
	}
	xyz = Xyz{1, 1, 1}
	if !xyz.Ok() {
		t.Error("OK should be true")
	}
}

func mkres(chain string, num int, ins byte, c, n *Xyz) Residue {
	r := Residue{ID: ResID{Struct: "t", Chain: chain, Num: num, InsCode: ins, Name: "ALA"}}
	if c != nil {
		r.Atoms = append(r.Atoms, Atom{Name: "C", Xyz: *c, Occ: 1})
	}
	if n != nil {
		r.Atoms = append(r.Atoms, Atom{Name: "N", Xyz: *n, Occ: 1})
	}
	return r
}

func TestSeqAdjacent(t *testing.T) {
	c := Xyz{0, 0, 0}
	nNear := Xyz{1.33, 0, 0}
	nFar := Xyz{3.5, 0, 0}
	tests := []struct {
		name string
		a, b Residue
		want bool
	}{
		{"numbers only", mkres("A", 1, 0, nil, nil), mkres("A", 2, 0, nil, nil), true},
		{"gap in numbers", mkres("A", 1, 0, nil, nil), mkres("A", 3, 0, nil, nil), false},
		{"insertion code", mkres("A", 52, 0, nil, nil), mkres("A", 52, 'A', nil, nil), true},
		{"other chain", mkres("A", 1, 0, nil, nil), mkres("B", 2, 0, nil, nil), false},
		{"peptide bond", mkres("A", 1, 0, &c, nil), mkres("A", 7, 0, nil, &nNear), true},
		{"broken bond", mkres("A", 1, 0, &c, nil), mkres("A", 2, 0, nil, &nFar), false},
	}
	for _, tt := range tests {
		if got := SeqAdjacent(&tt.a, &tt.b); got != tt.want {
			t.Errorf("%s: got %v wanted %v", tt.name, got, tt.want)
		}
	}
}

func TestSequence(t *testing.T) {
	ids := []ResID{{Name: "GLY"}, {Name: "PRO"}, {Name: "MSE"}, {Name: "HOH"}}
	if s := Sequence(ids); s != "GPMX" {
		t.Errorf("got %s wanted GPMX", s)
	}
}

func TestResIDString(t *testing.T) {
	if s := (ResID{Chain: "B", Num: 42, InsCode: 'b'}).String(); s != "B:42b" {
		t.Errorf("got %s", s)
	}
	if s := (ResID{Chain: "A", Num: -3}).String(); s != "A:-3" {
		t.Errorf("got %s", s)
	}
}
