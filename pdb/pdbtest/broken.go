package pdbtest

import (
	"errors"
	"io"
)

// ErrBroken is what a BrokenReader says when it stops.
var ErrBroken = errors.New("broken reader")

// BrokenReader wraps a reader and misbehaves in the ways files from
// disks and networks do. With Zero set, the first read says EOF, as
// with an empty file. Otherwise, once After bytes have gone through,
// it either fails with ErrBroken or, with Trash set, passes the rest of
// the data on as zero bytes.
type BrokenReader struct {
	R     io.Reader
	After int
	Zero  bool
	Trash bool
	nByte int
}

func (r *BrokenReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.Zero {
		return 0, io.EOF
	}
	if r.nByte >= r.After && !r.Trash {
		return 0, ErrBroken
	}
	n, err := r.R.Read(p)
	if r.Trash {
		keep := min(max(r.After-r.nByte, 0), n)
		clear(p[keep:n])
	} else if r.nByte+n > r.After {
		n = r.After - r.nByte
	}
	r.nByte += n
	return n, err
}
