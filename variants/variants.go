// Package variants reads the per-variant table produced upstream (one row per
// missense variant, keyed by rsid) into typed records.
package variants

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Variant is one row of the variant table. Numeric fields are null when the
// upstream annotator had no value.
type Variant struct {
	RSID            string
	Position        null.Int
	AminoAcidChange string
	Region          string
	AF              null.Float
	CADD            null.Float
	SIFT            string
	PolyPhen        string
}

// row mirrors the columns written by the variant-mining step. Everything is
// read as a string first; pandas writes integers as floats once a column has
// a missing value.
type row struct {
	RSID            string `csv:"rsid"`
	ProteinPosition string `csv:"protein_position"`
	AminoAcidChange string `csv:"amino_acid_change"`
	DomainRegion    string `csv:"domain_region"`
	AF              string `csv:"AF"`
	GnomADAF        string `csv:"gnomAD_AF"`
	CADD            string `csv:"cadd_phred"`
	SIFT            string `csv:"sift_pred"`
	PolyPhen        string `csv:"polyphen_pred"`
}

// Read parses a comma- or tab-delimited variant table with a header row. The
// protein_position column is required; the rest are optional.
func Read(r io.Reader) ([]Variant, error) {
	fileBytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := structmap.DetermineDelimiter(bytes.NewReader(fileBytes))

	header, err := readHeader(fileBytes, delim)
	if err != nil {
		return nil, err
	}
	if !header["protein_position"] {
		return nil, fmt.Errorf("variant table has no protein_position column")
	}

	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = delim
	cr.LazyQuotes = true

	rows := []*row{}
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]Variant, 0, len(rows))
	for i, rw := range rows {
		v, err := rw.variant()
		if err != nil {
			// +2: header, and 1-based lines
			return nil, pfx.Err(fmt.Errorf("line %d: %w", i+2, err))
		}
		out = append(out, v)
	}

	return out, nil
}

func readHeader(fileBytes []byte, delim rune) (map[string]bool, error) {
	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = delim
	cr.LazyQuotes = true

	cols, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("variant table is empty")
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	out := make(map[string]bool, len(cols))
	for _, c := range cols {
		out[strings.TrimSpace(c)] = true
	}
	return out, nil
}

func (rw row) variant() (Variant, error) {
	v := Variant{
		RSID:            rw.RSID,
		AminoAcidChange: rw.AminoAcidChange,
		Region:          rw.DomainRegion,
		SIFT:            missingToEmpty(rw.SIFT),
		PolyPhen:        missingToEmpty(rw.PolyPhen),
	}

	var err error
	if v.Position, err = ParsePosition(rw.ProteinPosition); err != nil {
		return v, err
	}

	af := rw.AF
	if isMissing(af) {
		af = rw.GnomADAF
	}
	if v.AF, err = ParseNullFloat(af); err != nil {
		return v, fmt.Errorf("AF: %w", err)
	}
	if v.CADD, err = ParseNullFloat(rw.CADD); err != nil {
		return v, fmt.Errorf("cadd_phred: %w", err)
	}

	return v, nil
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na", "none", ".":
		return true
	}
	return false
}

func missingToEmpty(s string) string {
	if isMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// ParsePosition accepts "153" and "153.0". Empty and NaN-like values are
// missing, not zero.
func ParsePosition(s string) (null.Int, error) {
	if isMissing(s) {
		return null.Int{}, nil
	}
	s = strings.TrimSpace(s)

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return null.IntFrom(i), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Int{}, fmt.Errorf("protein_position %q is not a number", s)
	}
	if math.IsNaN(f) {
		return null.Int{}, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return null.Int{}, fmt.Errorf("protein_position %q is not a whole number", s)
	}

	return null.IntFrom(int64(f)), nil
}

// ParseNullFloat parses s, treating empty and NaN-like values as null.
func ParseNullFloat(s string) (null.Float, error) {
	if isMissing(s) {
		return null.Float{}, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return null.Float{}, err
	}
	if math.IsNaN(f) {
		return null.Float{}, nil
	}

	return null.FloatFrom(f), nil
}

// Positions extracts the protein positions in table order, keeping missing
// entries so callers can count them.
func Positions(vs []Variant) []null.Int {
	out := make([]null.Int, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Position)
	}
	return out
}
