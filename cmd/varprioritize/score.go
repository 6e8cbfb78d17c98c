package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap/annotate"
	"github.com/carbocation/structmap/enrichment"
	"github.com/carbocation/structmap/priority"
	"github.com/carbocation/structmap/variants"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// Scored is a variant with the structural annotation of its position.
type Scored struct {
	Variant    variants.Variant
	Region     string
	Annotation annotate.Record
	Annotated  bool
	Pore       bool
}

// Join attaches to each variant the annotation of its position. Variants
// without a position, or whose position was not annotated, carry no
// structural evidence and keep their own region label. Pore membership comes
// from the region label alone, so it holds for unresolved positions too.
func Join(vs []variants.Variant, records []annotate.Record, pores []string) []Scored {
	byPosition := make(map[int]annotate.Record, len(records))
	for _, r := range records {
		if _, exists := byPosition[r.Position]; !exists {
			byPosition[r.Position] = r
		}
	}

	out := make([]Scored, 0, len(vs))
	for _, v := range vs {
		s := Scored{Variant: v, Region: v.Region}
		if v.Position.Valid {
			if rec, exists := byPosition[int(v.Position.Int64)]; exists {
				s.Annotation = rec
				s.Annotated = true
				s.Region = rec.Region
			}
		}
		s.Pore = isPore(s.Region, pores)
		out = append(out, s)
	}

	return out
}

func Evidence(scored []Scored) []priority.Evidence {
	out := make([]priority.Evidence, 0, len(scored))
	for _, s := range scored {
		out = append(out, priority.Evidence{
			AF:          s.Variant.AF,
			CADD:        s.Variant.CADD,
			PolyPhen:    s.Variant.PolyPhen,
			SIFT:        s.Variant.SIFT,
			BindingSite: s.Annotation.IsBindingSite,
			Pore:        s.Pore,
			Interface:   s.Annotation.IsInterface,
			TMCore:      s.Annotation.IsTMCore,
		})
	}
	return out
}

type rankedRow struct {
	RSID                string `csv:"rsid"`
	ProteinPosition     string `csv:"protein_position"`
	AminoAcidChange     string `csv:"amino_acid_change"`
	DomainRegion        string `csv:"domain_region"`
	AF                  string `csv:"AF"`
	CADD                string `csv:"cadd_phred"`
	SIFT                string `csv:"sift_pred"`
	PolyPhen            string `csv:"polyphen_pred"`
	IsBindingSite       bool   `csv:"is_binding_site"`
	IsInterface         bool   `csv:"is_interface"`
	IsTMCore            bool   `csv:"is_tm_core"`
	IsPoreRegion        bool   `csv:"is_pore_region"`
	SpatiallyUnresolved bool   `csv:"spatially_unresolved"`
	PriorityScore       int    `csv:"priority_score"`
	PriorityCategory    string `csv:"priority_category"`
}

// WriteRanked writes the variants in ranked order.
func WriteRanked(w io.Writer, scored []Scored, ranked []priority.Ranked) error {
	rows := make([]rankedRow, 0, len(ranked))
	for _, r := range ranked {
		s := scored[r.Index]
		rows = append(rows, rankedRow{
			RSID:                s.Variant.RSID,
			ProteinPosition:     nullIntFormatter(s.Variant.Position),
			AminoAcidChange:     s.Variant.AminoAcidChange,
			DomainRegion:        s.Region,
			AF:                  nullFloatFormatter(s.Variant.AF),
			CADD:                nullFloatFormatter(s.Variant.CADD),
			SIFT:                s.Variant.SIFT,
			PolyPhen:            s.Variant.PolyPhen,
			IsBindingSite:       s.Annotation.IsBindingSite,
			IsInterface:         s.Annotation.IsInterface,
			IsTMCore:            s.Annotation.IsTMCore,
			IsPoreRegion:        s.Pore,
			SpatiallyUnresolved: !s.Annotated || s.Annotation.SpatiallyUnresolved,
			PriorityScore:       r.Score,
			PriorityCategory:    string(r.Category),
		})
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csv.NewWriter(w))); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteEnrichment compares High against every other category for each
// structural feature.
func WriteEnrichment(w io.Writer, scored []Scored, ranked []priority.Ranked) error {
	high := make([]bool, len(scored))
	for _, r := range ranked {
		high[r.Index] = r.Category == priority.High
	}

	features := []struct {
		name string
		has  func(Scored) bool
	}{
		{"is_binding_site", func(s Scored) bool { return s.Annotation.IsBindingSite }},
		{"is_pore_core", func(s Scored) bool { return s.Pore }},
		{"is_interface", func(s Scored) bool { return s.Annotation.IsInterface }},
	}

	if _, err := fmt.Fprintln(w, enrichment.Header); err != nil {
		return err
	}
	for _, f := range features {
		has := make([]bool, len(scored))
		for i, s := range scored {
			has[i] = f.has(s)
		}

		table, err := enrichment.Tabulate(high, has)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, enrichment.Test(f.name, table)); err != nil {
			return err
		}
	}

	return nil
}

// DescribeScores summarizes the score distribution.
func DescribeScores(ranked []priority.Ranked) (string, error) {
	data := make(stats.Float64Data, 0, len(ranked))
	for _, r := range ranked {
		data = append(data, float64(r.Score))
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return "", err
	}
	median, err := stats.Median(data)
	if err != nil {
		return "", err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		sd = 0
	}
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	return fmt.Sprintf("n=%d mean=%.2f sd=%.2f min=%.0f median=%.1f max=%.0f", len(data), mean, sd, min, median, max), nil
}

func nullIntFormatter(n null.Int) string {
	if !n.Valid {
		return ""
	}

	return strconv.FormatInt(n.Int64, 10)
}

func nullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return ""
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}
