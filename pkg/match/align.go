package match

import (
	"strings"

	"github.com/andrew-torda/matrix"
)

// A query sequence that is not as long as the reference fragments is
// put on them with a Gotoh alignment (J. Mol. Biol. (1982) 162,
// 705-708). Gaps at either end cost nothing, so a query can cover just
// part of the fragments, or run past them.

// pnlty has the gap opening and widening values. Opening costs
// Open+Wdn, each extension Wdn.
type pnlty struct {
	open, wdn float32
}

var seqPnlty = pnlty{open: 3, wdn: 1}

const (
	seqMatch    float32 = 2
	seqMismatch float32 = -1
)

// Each cell of the direction matrix says how the best score got there
// in its low bits. pExt and qExt say if the gap scores of the cell
// extend a gap rather than open one.
const (
	diag byte = iota // diagonal movement
	pway             // along the query, gap in the reference
	qway             // along the reference, gap in the query
	stop             // traceback ends here

	moveBits      = 3
	pExt     byte = 4
	qExt     byte = 8
)

const bigf float32 = -1e+38

// wild characters in a query match any residue.
func wild(c byte) bool { return c == 'X' || c == '-' }

// identScore fills a score matrix with the query s down the rows and
// the reference t along the columns.
func identScore(s, t []byte) *matrix.FMatrix2d {
	smat := matrix.NewFMatrix2d(len(s), len(t))
	for i, cs := range s {
		row := smat.Mat[i]
		for j, ct := range t {
			if cs == ct || wild(cs) {
				row[j] = seqMatch
			} else {
				row[j] = seqMismatch
			}
		}
	}
	return smat
}

// align overwrites the score matrix with the summed scores and returns,
// for each column, the row aligned to it or -1.
func align(smat *matrix.FMatrix2d, pen pnlty) []int {
	scr := smat.Mat
	nrow, ncol := smat.Size()
	colToRow := make([]int, ncol)
	for j := range colToRow {
		colToRow[j] = -1
	}
	if nrow < 1 || ncol < 1 {
		return colToRow
	}
	dir := matrix.NewBMatrix2d(nrow, ncol).Mat
	for i := range dir {
		dir[i][0] = stop
	}
	for j := range dir[0] {
		dir[0][j] = stop
	}

	wdn := -pen.wdn
	w1 := -pen.open - pen.wdn
	p := make([]float32, ncol)
	for j := range p {
		p[j] = bigf
	}
	for i := 1; i < nrow; i++ { // walk along each row, left to right
		qprev := bigf
		for j := 1; j < ncol; j++ {
			var bits byte
			best := scr[i][j] + scr[i-1][j-1]
			drctn := diag
			if p[j]+wdn > scr[i-1][j]+w1 {
				p[j] += wdn
				bits |= pExt
			} else {
				p[j] = scr[i-1][j] + w1
			}
			q := scr[i][j-1] + w1
			if qprev+wdn > q {
				q = qprev + wdn
				bits |= qExt
			}
			if p[j] > best {
				best, drctn = p[j], pway
			}
			if q > best {
				best, drctn = q, qway
			}
			scr[i][j] = best
			dir[i][j] = drctn | bits
			qprev = q
		}
	}

	// Trailing gaps are free, so start from the best cell of the last
	// row or column.
	mi, mj := nrow-1, ncol-1
	for i := 0; i < nrow; i++ {
		if scr[i][ncol-1] > scr[mi][mj] {
			mi, mj = i, ncol-1
		}
	}
	for j := 0; j < ncol; j++ {
		if scr[nrow-1][j] > scr[mi][mj] {
			mi, mj = nrow-1, j
		}
	}

	// Inside a gap, the walk has to stay in the gap until the cell where
	// it was opened, whatever the best move into the cells on the way.
	i, j := mi, mj
	state := diag
	for {
		d := dir[i][j]
		switch state {
		case pway:
			if d&pExt == 0 {
				state = diag
			}
			i--
			continue
		case qway:
			if d&qExt == 0 {
				state = diag
			}
			j--
			continue
		}
		switch d & moveBits {
		case stop:
			colToRow[j] = i
			return colToRow
		case diag:
			colToRow[j] = i
			i--
			j--
		default:
			state = d & moveBits
		}
	}
}

// alignMask puts query onto ref. The mask has one character per
// residue of ref, X where the query has nothing. ident counts the
// query letters, not wild cards, that land on the same residue.
func alignMask(query, ref string) (mask string, ident int) {
	s := []byte(strings.ToUpper(query))
	t := []byte(ref)
	m := make([]byte, len(t))
	for j := range m {
		m[j] = 'X'
	}
	for j, i := range align(identScore(s, t), seqPnlty) {
		if i < 0 {
			continue
		}
		m[j] = s[i]
		if !wild(s[i]) && s[i] == t[j] {
			ident++
		}
	}
	return string(m), ident
}
