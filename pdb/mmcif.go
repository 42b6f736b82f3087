// Read the atom_site table from an mmCIF file. Nothing else in the file
// is looked at.

package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

const aSitePrefix = "_atom_site."

// siteCols are the column numbers of what we want from the atom_site
// loop. -1 means absent.
type siteCols struct {
	group, atom, alt, comp, chain, seq, ins, x, y, z, occ, model int
}

// firstOf returns the index of the first name present in hdr.
func firstOf(hdr map[string]int, names ...string) int {
	for _, n := range names {
		if i, ok := hdr[n]; ok {
			return i
		}
	}
	return -1
}

// newSiteCols prefers the author's naming, since that is what people
// quote, and falls back to the label_ columns.
func newSiteCols(hdr map[string]int) (siteCols, error) {
	c := siteCols{
		group: firstOf(hdr, "group_PDB"),
		atom:  firstOf(hdr, "auth_atom_id", "label_atom_id"),
		alt:   firstOf(hdr, "label_alt_id"),
		comp:  firstOf(hdr, "auth_comp_id", "label_comp_id"),
		chain: firstOf(hdr, "auth_asym_id", "label_asym_id"),
		seq:   firstOf(hdr, "auth_seq_id", "label_seq_id"),
		ins:   firstOf(hdr, "pdbx_PDB_ins_code"),
		x:     firstOf(hdr, "Cartn_x"),
		y:     firstOf(hdr, "Cartn_y"),
		z:     firstOf(hdr, "Cartn_z"),
		occ:   firstOf(hdr, "occupancy"),
		model: firstOf(hdr, "pdbx_PDB_model_num"),
	}
	for _, i := range []int{c.atom, c.comp, c.chain, c.seq, c.x, c.y, c.z} {
		if i < 0 {
			return c, fmt.Errorf("atom_site is missing a mandatory column")
		}
	}
	return c, nil
}

// isDotOrQ is true for the mmCIF placeholders for unknown or missing.
func isDotOrQ(s []byte) bool {
	return len(s) == 1 && (s[0] == '.' || s[0] == '?')
}

// readMmcif finds the atom_site loop and reads atoms from the first
// model.
func readMmcif(rdr io.Reader, b *resBuilder) error {
	scnr := bufio.NewScanner(rdr)
	scnr.Buffer(make([]byte, 0, 1024), 1024*1024)
	var (
		inLoop, inSite bool
		hdr            = make(map[string]int)
		cols           siteCols
		words          = make([][]byte, 0, 24)
		lineNum        int
	)
	for scnr.Scan() {
		lineNum++
		line := scnr.Bytes()
		switch {
		case bytes.HasPrefix(line, []byte("loop_")):
			if inSite {
				return nil // a new table after atom_site
			}
			inLoop = true
			clear(hdr)
			continue
		case inLoop && bytes.HasPrefix(line, []byte(aSitePrefix)):
			name := string(bytes.TrimSpace(line[len(aSitePrefix):]))
			hdr[name] = len(hdr)
			continue
		case len(line) > 0 && line[0] == '_':
			if inSite {
				return nil
			}
			inLoop = false
			continue
		case len(bytes.TrimSpace(line)) == 0, line[0] == '#':
			if inSite {
				return nil
			}
			continue
		}
		if !inSite {
			if !inLoop || len(hdr) == 0 {
				continue // data of some other table
			}
			var err error
			if cols, err = newSiteCols(hdr); err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
			inSite = true
		}
		var err error
		if words, err = splitCifLine(line, words); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(words) != len(hdr) {
			return fmt.Errorf("line %d: wanted %d fields, got %d", lineNum, len(hdr), len(words))
		}
		if err = siteAtom(words, cols, b); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scnr.Err(); err != nil {
		return err
	}
	if !inSite {
		return fmt.Errorf("no atom_site table")
	}
	return nil
}

// siteAtom converts one row of the atom_site table.
func siteAtom(w [][]byte, c siteCols, b *resBuilder) error {
	model := 1
	if c.model >= 0 && !isDotOrQ(w[c.model]) {
		var err error
		if model, err = strconv.Atoi(string(w[c.model])); err != nil {
			return fmt.Errorf("model number: %w", err)
		}
	}
	if !b.wantModel(model) {
		return nil
	}
	var id cmmn.ResID
	var err error
	if id.Num, err = strconv.Atoi(string(w[c.seq])); err != nil {
		return fmt.Errorf("residue number: %w", err)
	}
	id.Chain = string(w[c.chain])
	id.Name = string(w[c.comp])
	if c.ins >= 0 && !isDotOrQ(w[c.ins]) {
		id.InsCode = w[c.ins][0]
	}
	var xyz cmmn.Xyz
	if xyz.X, err = strconv.ParseFloat(string(w[c.x]), 64); err == nil {
		if xyz.Y, err = strconv.ParseFloat(string(w[c.y]), 64); err == nil {
			xyz.Z, err = strconv.ParseFloat(string(w[c.z]), 64)
		}
	}
	if err != nil {
		return fmt.Errorf("coordinates: %w", err)
	}
	occ := 1.0
	if c.occ >= 0 && !isDotOrQ(w[c.occ]) {
		if occ, err = strconv.ParseFloat(string(w[c.occ]), 64); err != nil {
			return fmt.Errorf("occupancy: %w", err)
		}
	}
	var alt byte
	if c.alt >= 0 && !isDotOrQ(w[c.alt]) {
		alt = w[c.alt][0]
	}
	b.add(id, string(w[c.atom]), alt, xyz, occ)
	return nil
}
