// This is the upper level for reading coordinate files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then call the corresponding pdb or mmcif
// format reader.

package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/zwrap"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrFormat     = Error("cannot recognise format")
	ErrNoResidues = Error("no residues with N, CA, C and O")
)

// File formats
const (
	OldFmt byte = iota
	MmcifFmt
	UnkFmt
)

// comparefirst says if two words are the same, looking at the
// the length of the shorter
func comparefirst(s, t string) bool {
	n := min(len(s), len(t))
	return n > 0 && s[:n] == t[:n]
}

// sniff looks at the start of some text and guesses if it is in old
// PDB format or in mmcif.
func sniff(head []byte) byte {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "CRYST1", "MODEL ", "HETATM", "ATOM  "}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	scnnr := bufio.NewScanner(bytes.NewReader(head))
	for scnnr.Scan() {
		s := scnnr.Text()
		if len(s) < 4 {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return MmcifFmt
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return OldFmt
			}
		}
	}
	return UnkFmt
}

// OldOrMmcif decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func OldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		switch {
		case strings.Contains(s, "cif"):
			return MmcifFmt, nil
		case strings.Contains(s, "pdb"), strings.Contains(s, "ent"):
			return OldFmt, nil
		}
	}
	const headLen = 64 * 1024
	head, err := zwrap.Head(fname, headLen)
	if err != nil {
		return UnkFmt, err
	}
	if t := sniff(head); t != UnkFmt {
		return t, nil
	}
	return UnkFmt, fmt.Errorf("%s: %w", fname, ErrFormat)
}

// Read reads residues from rdr in the given format. Only the first
// model is read. Of alternate locations, the first one in each residue
// wins. Atoms with occupancy below MinOcc are dropped, then residues
// without N, CA, C and O.
func Read(rdr io.Reader, format byte, structID string) ([]cmmn.Residue, error) {
	b := resBuilder{structID: structID}
	var err error
	switch format {
	case OldFmt:
		err = readOld(rdr, &b)
	case MmcifFmt:
		err = readMmcif(rdr, &b)
	default:
		err = ErrFormat
	}
	if err != nil {
		return nil, err
	}
	res := b.done()
	if len(res) == 0 {
		return nil, ErrNoResidues
	}
	return res, nil
}

// StructID makes a structure id from a file name, so "/x/1abc.cif.gz"
// gives "1abc".
func StructID(fname string) string {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	return s
}

// ReadResidues takes a file name, guesses the format, opens it
// (gzipped or not) and returns the residues. If structID is empty, one
// is made from the file name. Errors carry the file name.
func ReadResidues(fname, structID string) ([]cmmn.Residue, error) {
	if structID == "" {
		structID = StructID(fname)
	}
	typ, err := OldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	res, err := Read(rdr, typ, structID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return res, nil
}
