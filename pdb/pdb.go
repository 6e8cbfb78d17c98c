// Package pdb reads coordinate files in the legacy PDB format into a
// structure.Model. Only the first model of a multi-model file is kept, and
// for atoms with alternate locations only the first conformer is used.
package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap/structure"
	"gonum.org/v1/gonum/spatial/r3"
)

// Residue names treated as water rather than ligand.
var WaterNames = map[string]struct{}{
	"HOH": {}, "WAT": {}, "H2O": {}, "DOD": {}, "SOL": {}, "TIP": {}, "TIP3": {},
}

type pdbParser struct {
	builder *structure.Builder
	line    []byte
	lineNum int

	// Model bookkeeping: once the first MODEL block ends, every later
	// coordinate record is ignored.
	sawModel  bool
	modelDone bool

	// altLoc chosen for each residue, keyed by residue
	altLocs map[structure.ResidueKey]byte
}

// Read parses a PDB-format stream. A stream without any ATOM or HETATM
// records yields an empty model and no error; callers must check
// Model.Empty (or Model.Validate) before use. Coordinate records that cannot
// be parsed are reported as errors.
func Read(r io.Reader, id string) (*structure.Model, error) {
	p := pdbParser{
		builder: structure.NewBuilder(id),
		altLocs: make(map[structure.ResidueKey]byte),
	}

	breader := bufio.NewReaderSize(r, 4096)
	for {
		line, err := breader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, pfx.Err(err)
		}
		if len(line) > 0 {
			p.lineNum++
			p.line = bytes.TrimRight(line, "\r\n")
			if perr := p.parseLine(); perr != nil {
				return nil, pfx.Err(perr)
			}
		}
		if err == io.EOF || p.modelDone {
			break
		}
	}

	return p.builder.Build(), nil
}

func (p *pdbParser) parseLine() error {
	switch p.cols(1, 6) {
	case "HEADER":
		if id := p.cols(63, 66); id != "" {
			p.builder.SetID(id)
		}
	case "MODEL":
		if p.sawModel {
			p.modelDone = true
			return nil
		}
		p.sawModel = true
	case "ENDMDL":
		p.modelDone = true
	case "ATOM":
		return p.parseAtom(false)
	case "HETATM":
		return p.parseAtom(true)
	}

	return nil
}

func (p *pdbParser) parseAtom(het bool) error {
	resName := p.cols(18, 20)
	chain := p.cols(22, 22)
	if chain == "" {
		chain = "_"
	}

	seqNum, err := p.atoi(23, 26)
	if err != nil {
		return fmt.Errorf("line %d: residue number: %w", p.lineNum, err)
	}

	key := structure.ResidueKey{Chain: chain, Number: seqNum}
	if icode := p.at(27); icode != ' ' && icode != 0 {
		key.ICode = icode
	}

	if altLoc := p.at(17); altLoc != ' ' && altLoc != 0 {
		chosen, seen := p.altLocs[key]
		if !seen {
			p.altLocs[key] = altLoc
		} else if chosen != altLoc {
			return nil
		}
	}

	atom := structure.Atom{
		Name: p.cols(13, 16),
	}
	if serial, err := p.atoi(7, 11); err == nil {
		atom.Serial = serial
	}

	var c r3.Vec
	if c.X, err = p.atof(31, 38); err != nil {
		return fmt.Errorf("line %d: x coordinate: %w", p.lineNum, err)
	}
	if c.Y, err = p.atof(39, 46); err != nil {
		return fmt.Errorf("line %d: y coordinate: %w", p.lineNum, err)
	}
	if c.Z, err = p.atof(47, 54); err != nil {
		return fmt.Errorf("line %d: z coordinate: %w", p.lineNum, err)
	}
	atom.Coord = c

	atom.Element = strings.ToUpper(p.cols(77, 78))
	if atom.Element == "" {
		atom.Element = elementFromName(p.raw(13, 16), het)
	}

	kind := structure.Standard
	if _, water := WaterNames[resName]; water {
		kind = structure.Water
	} else if het {
		kind = structure.Hetero
	}

	p.builder.Add(key, resName, kind, atom)
	return nil
}

// twoLetterElements are the elements a HETATM name may spell out from column
// 13 onward.
var twoLetterElements = map[string]struct{}{
	"BR": {}, "CA": {}, "CD": {}, "CL": {}, "CO": {}, "CS": {}, "CU": {},
	"FE": {}, "HG": {}, "LI": {}, "MG": {}, "MN": {}, "NA": {}, "NI": {},
	"PB": {}, "PT": {}, "SE": {}, "SR": {}, "ZN": {},
}

// elementFromName guesses the element for files that leave columns 77-78
// blank, from the raw atom name field (columns 13-16). In HETATM records a
// two-letter element starts in column 13, so "HG  " is mercury while " CA "
// is a carbon. ATOM names always start with a one-letter element, and leading
// digits are skipped, so "1HB " and "HG21" are hydrogens.
func elementFromName(field string, het bool) string {
	if het && len(field) >= 2 && field[0] != ' ' {
		if el := strings.ToUpper(field[:2]); isElement(el) {
			return el
		}
	}

	name := strings.TrimLeft(strings.TrimSpace(field), "0123456789")
	if name == "" {
		return ""
	}

	return strings.ToUpper(name[0:1])
}

func isElement(s string) bool {
	_, ok := twoLetterElements[s]
	return ok
}

func (p pdbParser) atoi(start, end int) (int, error) {
	return strconv.Atoi(p.cols(start, end))
}

func (p pdbParser) atof(start, end int) (float64, error) {
	return strconv.ParseFloat(p.cols(start, end), 64)
}

// cols returns the trimmed text in the 1-based, inclusive column range.
func (p pdbParser) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	if re < rs {
		return ""
	}
	return string(bytes.TrimSpace(p.line[rs:re]))
}

// raw is cols without trimming.
func (p pdbParser) raw(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	return string(p.line[rs:re])
}

func (p pdbParser) at(column int) byte {
	i := column - 1
	if i < 0 || i >= len(p.line) {
		return 0
	}
	return p.line[i]
}
