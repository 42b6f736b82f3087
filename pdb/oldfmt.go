// Read the old, fixed column PDB format.

package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

// Columns, counting from zero, of ATOM and HETATM records.
const (
	colName   = 12
	colAlt    = 16
	colRes    = 17
	colChain  = 21
	colNum    = 22
	colIns    = 26
	colX      = 30
	colY      = 38
	colZ      = 46
	colOcc    = 54
	colOccEnd = 60
	minAtmLen = colZ + 8
)

// field returns columns [i:j] of a line without the spaces, and copes
// with short lines.
func field(line []byte, i, j int) []byte {
	if i >= len(line) {
		return nil
	}
	if j > len(line) {
		j = len(line)
	}
	return bytes.TrimSpace(line[i:j])
}

func getFloat(line []byte, i, j int) (float64, error) {
	return strconv.ParseFloat(string(field(line, i, j)), 64)
}

// readOld reads ATOM and HETATM records from the first model.
func readOld(rdr io.Reader, b *resBuilder) error {
	scnr := bufio.NewScanner(rdr)
	scnr.Buffer(make([]byte, 0, 1024), 1024*1024)
	model := 1
	for lineNum := 1; scnr.Scan(); lineNum++ {
		line := scnr.Bytes()
		switch {
		case bytes.HasPrefix(line, []byte("MODEL")):
			m, err := strconv.Atoi(string(field(line, 10, 14)))
			if err != nil {
				return fmt.Errorf("line %d: broken MODEL record: %w", lineNum, err)
			}
			model = m
			continue
		case bytes.HasPrefix(line, []byte("ENDMDL")):
			if b.haveMod && model == b.model {
				return nil // only the first model is wanted
			}
			continue
		case bytes.HasPrefix(line, []byte("ATOM  ")), bytes.HasPrefix(line, []byte("HETATM")):
		default:
			continue
		}
		if !b.wantModel(model) {
			continue
		}
		if len(line) < minAtmLen {
			return fmt.Errorf("line %d: short atom record", lineNum)
		}
		var id cmmn.ResID
		var err error
		if id.Num, err = strconv.Atoi(string(field(line, colNum, colIns))); err != nil {
			return fmt.Errorf("line %d: residue number: %w", lineNum, err)
		}
		id.Chain = string(field(line, colChain, colChain+1))
		id.Name = string(field(line, colRes, colRes+3))
		if c := line[colIns]; c != ' ' {
			id.InsCode = c
		}
		var xyz cmmn.Xyz
		if xyz.X, err = getFloat(line, colX, colY); err == nil {
			if xyz.Y, err = getFloat(line, colY, colZ); err == nil {
				xyz.Z, err = getFloat(line, colZ, colOcc)
			}
		}
		if err != nil {
			return fmt.Errorf("line %d: coordinates: %w", lineNum, err)
		}
		occ := 1.0
		if o := field(line, colOcc, colOccEnd); len(o) > 0 {
			if occ, err = strconv.ParseFloat(string(o), 64); err != nil {
				return fmt.Errorf("line %d: occupancy: %w", lineNum, err)
			}
		}
		var alt byte
		if c := line[colAlt]; c != ' ' {
			alt = c
		}
		b.add(id, string(field(line, colName, colAlt)), alt, xyz, occ)
	}
	return scnr.Err()
}
