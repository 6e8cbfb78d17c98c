package annotate

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
	"github.com/carbocation/runningvariance"
	"github.com/montanaflynn/stats"
)

// Summary counts the flags over a set of records and describes the ligand
// distance distribution of the resolved ones.
type Summary struct {
	Total        int
	Resolved     int
	BindingSites int
	Interface    int
	TMCore       int

	// Median and mean of the minimum ligand distance, over records where it
	// is defined. Zero when no record has one; check LigandDistances.
	MedianLigandDistance float64
	MeanLigandDistance   float64
	LigandDistances      int

	// Mean and standard deviation of the minimum distance to another chain.
	OtherChainDistanceMean float64
	OtherChainDistanceSD   float64
	OtherChainDistances    int
}

func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}

	dists := ligandDistances(records)
	other := runningvariance.NewRunningStat()
	for _, r := range records {
		if r.SpatiallyUnresolved {
			continue
		}
		if r.MinDistanceToOtherChain.Valid {
			other.Push(r.MinDistanceToOtherChain.Float64)
			s.OtherChainDistances++
		}
		s.Resolved++
		if r.IsBindingSite {
			s.BindingSites++
		}
		if r.IsInterface {
			s.Interface++
		}
		if r.IsTMCore {
			s.TMCore++
		}
	}

	s.LigandDistances = len(dists)
	if len(dists) > 0 {
		s.MedianLigandDistance, _ = stats.Median(dists)
		s.MeanLigandDistance, _ = stats.Mean(dists)
	}
	if s.OtherChainDistances > 0 {
		s.OtherChainDistanceMean = other.Mean()
		s.OtherChainDistanceSD = other.StandardDeviation()
	}

	return s
}

func ligandDistances(records []Record) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		if r.MinDistanceToLigand.Valid {
			out = append(out, r.MinDistanceToLigand.Float64)
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func (s Summary) String() string {
	return fmt.Sprintf("%d positions, %d resolved (%.1f%%): %d binding site (%.1f%%), %d interface (%.1f%%), %d TM core (%.1f%%); ligand distance median %.2f mean %.2f over %d; other chain distance mean %.2f sd %.2f over %d",
		s.Total, s.Resolved, percent(s.Resolved, s.Total),
		s.BindingSites, percent(s.BindingSites, s.Total),
		s.Interface, percent(s.Interface, s.Total),
		s.TMCore, percent(s.TMCore, s.Total),
		s.MedianLigandDistance, s.MeanLigandDistance, s.LigandDistances,
		s.OtherChainDistanceMean, s.OtherChainDistanceSD, s.OtherChainDistances)
}

// FprintHistogram draws the distribution of minimum ligand distances. Nothing
// is written if no record has one.
func FprintHistogram(w io.Writer, records []Record, bins int) error {
	dists := ligandDistances(records)
	if len(dists) == 0 {
		return nil
	}
	if bins < 1 {
		bins = 1
	}

	hist := histogram.Hist(bins, dists)
	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
