// Package enrichment tests whether a structural feature is over-represented
// among high-priority variants, using a 2x2 contingency table:
//
//	            feature  no feature
//	high           A         B
//	not high       C         D
package enrichment

import (
	"fmt"
	"math"

	fet "github.com/glycerine/golang-fisher-exact"
	"gonum.org/v1/gonum/stat/distuv"
)

// z for a two-sided 95% interval.
const z95 = 1.959963984540054

type Table struct {
	A, B, C, D int
}

// Tabulate counts the four cells. The slices must be the same length.
func Tabulate(high, feature []bool) (Table, error) {
	if len(high) != len(feature) {
		return Table{}, fmt.Errorf("got %d group labels but %d feature labels", len(high), len(feature))
	}

	var t Table
	for i := range high {
		switch {
		case high[i] && feature[i]:
			t.A++
		case high[i]:
			t.B++
		case feature[i]:
			t.C++
		default:
			t.D++
		}
	}

	return t, nil
}

func (t Table) N() int {
	return t.A + t.B + t.C + t.D
}

func (t Table) emptyMargin() bool {
	return t.A+t.B == 0 || t.C+t.D == 0 || t.A+t.C == 0 || t.B+t.D == 0
}

func (t Table) String() string {
	return fmt.Sprintf("[[%d %d] [%d %d]]", t.A, t.B, t.C, t.D)
}

// OddsRatio is the sample odds ratio AD/BC. It is +Inf when BC is 0 and NaN
// when both products are 0.
func (t Table) OddsRatio() float64 {
	num := float64(t.A) * float64(t.D)
	den := float64(t.B) * float64(t.C)
	if den == 0 {
		if num == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return num / den
}

// WoolfCI is the 95% log-odds interval. If any cell is zero, 0.5 is added to
// every cell first.
func (t Table) WoolfCI() (lower, upper float64) {
	a, b, c, d := float64(t.A), float64(t.B), float64(t.C), float64(t.D)
	if t.A == 0 || t.B == 0 || t.C == 0 || t.D == 0 {
		a, b, c, d = a+0.5, b+0.5, c+0.5, d+0.5
	}

	logOR := math.Log(a * d / (b * c))
	se := math.Sqrt(1/a + 1/b + 1/c + 1/d)

	return math.Exp(logOR - z95*se), math.Exp(logOR + z95*se)
}

// FisherP is the two-sided Fisher exact p value. A table with an empty row
// or column gives 1.
func (t Table) FisherP() float64 {
	if t.emptyMargin() {
		return 1
	}
	_, _, _, twop := fet.FisherExactTest(t.A, t.B, t.C, t.D)
	return twop
}

// ChiSquare is Pearson's statistic without continuity correction. A table
// with an empty row or column gives 0.
func (t Table) ChiSquare() float64 {
	a, b, c, d := float64(t.A), float64(t.B), float64(t.C), float64(t.D)
	if t.emptyMargin() {
		return 0
	}
	rows := (a + b) * (c + d)
	cols := (a + c) * (b + d)

	diff := a*d - b*c
	return diff * diff * (a + b + c + d) / (rows * cols)
}

// ChiSquareP is the upper tail of the 1 df chi-square distribution.
func (t Table) ChiSquareP() float64 {
	x := t.ChiSquare()
	if x <= 0 {
		return 1
	}

	return chiSquareTail(x)
}

func chiSquareTail(x float64) float64 {
	return distuv.ChiSquared{K: 1}.Survival(x)
}

type Result struct {
	Feature    string
	Table      Table
	OddsRatio  float64
	Lower      float64
	Upper      float64
	FisherP    float64
	ChiSquareP float64
}

func Test(feature string, t Table) Result {
	lower, upper := t.WoolfCI()

	return Result{
		Feature:    feature,
		Table:      t,
		OddsRatio:  t.OddsRatio(),
		Lower:      lower,
		Upper:      upper,
		FisherP:    t.FisherP(),
		ChiSquareP: t.ChiSquareP(),
	}
}

// Header matches the columns printed by Result.String.
const Header = "Feature\tOR\tLower_CI\tUpper_CI\tp-value\tchisq_p-value"

func (r Result) String() string {
	return fmt.Sprintf("%s\t%.4f\t%.4f\t%.4f\t%.4e\t%.4e", r.Feature, r.OddsRatio, r.Lower, r.Upper, r.FisherP, r.ChiSquareP)
}
