// Package priority ranks variants with an additive rule score over
// population frequency, structural context and in silico predictions.
package priority

import (
	"sort"
	"strings"

	"gopkg.in/guregu/null.v3"
)

type Category string

const (
	High    Category = "High"
	Medium  Category = "Medium"
	Low     Category = "Low"
	VeryLow Category = "Very Low"
)

// MaxStructural caps the points from structural context.
const MaxStructural = 4

// Evidence is everything the score looks at for one variant.
type Evidence struct {
	AF       null.Float
	CADD     null.Float
	PolyPhen string
	SIFT     string

	BindingSite bool
	Pore        bool
	Interface   bool
	TMCore      bool
}

// Population: rarer variants score higher. A missing frequency scores
// nothing.
func Population(af null.Float) int {
	if !af.Valid {
		return 0
	}

	switch {
	case af.Float64 < 1e-5:
		return 2
	case af.Float64 < 1e-4:
		return 1
	}
	return 0
}

// Structural sums the structural points and caps them at MaxStructural. The
// transmembrane point only counts outside the pore.
func Structural(e Evidence) int {
	score := 0
	if e.BindingSite {
		score += 4
	}
	if e.Pore {
		score += 4
	}
	if e.Interface {
		score += 2
	}
	if e.TMCore && !e.Pore {
		score++
	}

	if score > MaxStructural {
		return MaxStructural
	}
	return score
}

func Functional(e Evidence) int {
	score := 0

	if e.CADD.Valid {
		switch c := e.CADD.Float64; {
		case c >= 30:
			score += 3
		case c >= 25:
			score += 2
		case c >= 20:
			score++
		}
	}

	polyphen := strings.ToLower(e.PolyPhen)
	if strings.Contains(polyphen, "probably_damaging") {
		score += 2
	} else if strings.Contains(polyphen, "possibly_damaging") {
		score++
	}

	// Also matches deleterious_low_confidence.
	if strings.Contains(strings.ToLower(e.SIFT), "deleterious") {
		score++
	}

	return score
}

func Score(e Evidence) int {
	return Population(e.AF) + Structural(e) + Functional(e)
}

func Categorize(score int) Category {
	switch {
	case score >= 10:
		return High
	case score >= 6:
		return Medium
	case score >= 3:
		return Low
	}
	return VeryLow
}

// Ranked is a scored item carrying the index of its input row.
type Ranked struct {
	Index    int
	Score    int
	Category Category
}

// Rank scores every item and orders them by score, highest first. Ties keep
// input order.
func Rank(evidence []Evidence) []Ranked {
	out := make([]Ranked, 0, len(evidence))
	for i, e := range evidence {
		s := Score(e)
		out = append(out, Ranked{Index: i, Score: s, Category: Categorize(s)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Counts tallies items per category.
func Counts(ranked []Ranked) map[Category]int {
	out := map[Category]int{High: 0, Medium: 0, Low: 0, VeryLow: 0}
	for _, r := range ranked {
		out[r.Category]++
	}
	return out
}
