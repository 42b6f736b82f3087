package match

import "github.com/andrew-torda/fragmatch/pdb/cmmn"

// Export some internals for testing
var (
	Overlaps  = overlaps
	Signature = signature
	Dedup     = dedup
	Bridged   = bridged
	AlignMask = alignMask
)

func Connected(refSame, refAfter, tgtSame, tgtAfter bool) bool {
	return connected(order{refSame, refAfter}, order{tgtSame, tgtAfter})
}

func SeqOK(mask string, res []cmmn.Residue) bool {
	p := make([]*cmmn.Residue, len(res))
	for i := range res {
		p[i] = &res[i]
	}
	return seqOK(mask, p)
}
