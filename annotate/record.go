package annotate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Record is the structural annotation of one reference position. Metrics
// that could not be computed are null, never zero.
type Record struct {
	Position            int
	Region              string
	IsBindingSite       bool
	IsInterface         bool
	IsTMCore            bool
	SpatiallyUnresolved bool

	MinDistanceToLigand        null.Float
	MinDistanceToOtherChain    null.Float
	RadialDistanceFromCentroid null.Float
}

// Row is the flat, string-typed form of a Record. The field order is the
// output column order.
type Row struct {
	Position                   int    `csv:"position"`
	Region                     string `csv:"region"`
	IsBindingSite              bool   `csv:"is_binding_site"`
	IsInterface                bool   `csv:"is_interface"`
	IsTMCore                   bool   `csv:"is_tm_core"`
	SpatiallyUnresolved        bool   `csv:"spatially_unresolved"`
	MinDistanceToLigand        string `csv:"min_distance_to_ligand"`
	MinDistanceToOtherChain    string `csv:"min_distance_to_other_chain"`
	RadialDistanceFromCentroid string `csv:"radial_distance_from_centroid"`
}

// Columns is the header written by WriteCSV.
var Columns = []string{
	"position",
	"region",
	"is_binding_site",
	"is_interface",
	"is_tm_core",
	"spatially_unresolved",
	"min_distance_to_ligand",
	"min_distance_to_other_chain",
	"radial_distance_from_centroid",
}

func (r Record) Row() Row {
	return Row{
		Position:                   r.Position,
		Region:                     r.Region,
		IsBindingSite:              r.IsBindingSite,
		IsInterface:                r.IsInterface,
		IsTMCore:                   r.IsTMCore,
		SpatiallyUnresolved:        r.SpatiallyUnresolved,
		MinDistanceToLigand:        NullFloatFormatter(r.MinDistanceToLigand),
		MinDistanceToOtherChain:    NullFloatFormatter(r.MinDistanceToOtherChain),
		RadialDistanceFromCentroid: NullFloatFormatter(r.RadialDistanceFromCentroid),
	}
}

func Rows(records []Record) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		out = append(out, r.Row())
	}
	return out
}

// NullFloatFormatter prints a null float as the empty string, and otherwise
// with three decimal places.
func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return ""
	}

	return strconv.FormatFloat(n.Float64, 'f', 3, 64)
}

// WriteCSV writes records with a header row, separated by comma.
func WriteCSV(w io.Writer, records []Record, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := gocsv.MarshalCSV(Rows(records), gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadCSV reads a table written by WriteCSV, with either delimiter.
func ReadCSV(r io.Reader) ([]Record, error) {
	fileBytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	cr := csv.NewReader(bytes.NewReader(fileBytes))
	if structmap.DetermineDelimiter(bytes.NewReader(fileBytes)) == '\t' {
		cr.Comma = '\t'
	}

	rows := []*Row{}
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := row.Record()
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("line %d: %w", i+2, err))
		}
		out = append(out, rec)
	}

	return out, nil
}

func (r Row) Record() (Record, error) {
	rec := Record{
		Position:            r.Position,
		Region:              r.Region,
		IsBindingSite:       r.IsBindingSite,
		IsInterface:         r.IsInterface,
		IsTMCore:            r.IsTMCore,
		SpatiallyUnresolved: r.SpatiallyUnresolved,
	}

	var err error
	if rec.MinDistanceToLigand, err = parseNullFloat(r.MinDistanceToLigand); err != nil {
		return rec, err
	}
	if rec.MinDistanceToOtherChain, err = parseNullFloat(r.MinDistanceToOtherChain); err != nil {
		return rec, err
	}
	if rec.RadialDistanceFromCentroid, err = parseNullFloat(r.RadialDistanceFromCentroid); err != nil {
		return rec, err
	}

	return rec, nil
}

func parseNullFloat(s string) (null.Float, error) {
	if s == "" {
		return null.Float{}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, err
	}

	return null.FloatFrom(f), nil
}
