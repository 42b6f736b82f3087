package fragmatch

import (
	"bufio"
	"fmt"
	"io"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pkg/batch"
	"github.com/andrew-torda/fragmatch/pkg/sstype"
)

// printCVs writes one line per CV: index, first and last residue,
// CVL and the two mean positions. Broken windows get a star.
func printCVs(w io.Writer, p *batch.Prepared) error {
	b := bufio.NewWriter(w)
	set := p.Set
	fmt.Fprintf(b, "# %s %d residues %d cvs window %d\n", set.StructID, set.NResidue(), len(set.CVs), set.Window)
	for i := range set.CVs {
		c := &set.CVs[i]
		mark := ' '
		if !c.Valid() {
			mark = '*'
		}
		fmt.Fprintf(b, "%5d %8s %8s %7.3f%c %8.3f %8.3f %8.3f %8.3f %8.3f %8.3f\n",
			c.Index, c.Residues[0], c.Residues[len(c.Residues)-1], c.CVL, mark,
			c.CA.X, c.CA.Y, c.CA.Z, c.O.X, c.O.Y, c.O.Z)
	}
	return b.Flush()
}

func resRange(ids []cmmn.ResID) string {
	if len(ids) == 0 {
		return "-"
	}
	return ids[0].String() + "-" + ids[len(ids)-1].String()
}

// printGraph writes the labels of a structure and its fragments.
func printGraph(w io.Writer, g *sstype.Graph, tree bool) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "> %s\n%s\n", g.StructID, g.Labels())
	for _, f := range g.Nodes {
		sheet := "-"
		if f.SheetID != 0 {
			sheet = fmt.Sprint(f.SheetID)
		}
		fmt.Fprintf(b, "%4d %-6s %-16s %4d %3s %s\n", f.ID, f.SS, resRange(f.Residues), f.Len(), sheet, f.Sequence)
	}
	if tree {
		for _, e := range g.SpanningTree() {
			t, _ := g.Edge(e[0], e[1])
			fmt.Fprintf(b, "edge %d %d distance %.2f angle %.1f\n", e[0], e[1], t.Distance, t.Angle)
		}
	}
	return b.Flush()
}

// printReport writes each target's status and solutions.
func printReport(w io.Writer, rep *batch.Report) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# run %s, %d targets, %d failed\n", rep.RunID, len(rep.Outcomes), rep.Failed)
	for _, o := range rep.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(b, "> %s failed: %v\n", o.Path, o.Err)
			continue
		}
		r := o.Result
		fmt.Fprintf(b, "> %s %s %d solutions\n", o.Path, r.Status, len(r.Solutions))
		for n, s := range r.Solutions {
			fmt.Fprintf(b, "%3d dist %.4f angle %.4f rmsd %.3f", n+1, s.DistanceDissimilarity, s.AngleDissimilarity, s.RMSD)
			for _, p := range s.Placements {
				fmt.Fprintf(b, " %d:%d-%d", p.Fragment, p.Start, p.End)
			}
			fmt.Fprintf(b, " %s\n", resRange(s.Residues))
		}
	}
	return b.Flush()
}
