// Package zwrap opens a coordinate file by mapping it into memory and
// hands back a ReadCloser. If the file is gzipped, reads go through
// the decompressor. Close unmaps and closes the file.
// Coordinate files are read once from front to back, so mapping them
// saves the copies through a buffered reader.

package zwrap

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

var gzMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   *os.File
	mm   mmap.MMap // nil for an empty file
	rdr  *bytes.Reader
	zrdr *gzip.Reader
}

// Close closes the decompressor, unmaps, then closes the file.
func (fc *FpGzip) Close() error {
	var errs []error
	if fc.zrdr != nil {
		errs = append(errs, fc.zrdr.Close())
	}
	if fc.mm != nil {
		errs = append(errs, fc.mm.Unmap())
	}
	errs = append(errs, fc.fp.Close())
	return errors.Join(errs...)
}

// Read makes sure we read from the compressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.rdr.Read(p)
}

// Gzipped says if we are decompressing.
func (fc *FpGzip) Gzipped() bool { return fc.zrdr != nil }

// Open maps fname and decides if it is compressed by looking at the
// first two bytes, not the file name.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if fi.IsDir() {
		fp.Close()
		return nil, errors.New(fname + " is a directory")
	}
	fc := &FpGzip{fp: fp}
	if fi.Size() == 0 { // mmap refuses zero length
		fc.rdr = bytes.NewReader(nil)
		return fc, nil
	}
	if fc.mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		fp.Close()
		return nil, err
	}
	fc.rdr = bytes.NewReader(fc.mm)
	if bytes.HasPrefix(fc.mm, gzMagic) {
		if fc.zrdr, err = gzip.NewReader(fc.rdr); err != nil {
			fc.Close()
			return nil, errors.New("reading " + fname + " " + err.Error())
		}
	}
	return fc, nil
}

// Head returns up to n bytes from the start of the (decompressed) file
// without disturbing a later Open. It is used to sniff file formats.
func Head(fname string, n int) ([]byte, error) {
	fc, err := Open(fname)
	if err != nil {
		return nil, err
	}
	defer fc.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(fc, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	return buf[:m], err
}

var _ io.ReadCloser = (*FpGzip)(nil)
