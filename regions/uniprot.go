package regions

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

type uniProtEntry struct {
	Features []uniProtFeature `json:"features"`
}

type uniProtFeature struct {
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Location    *uniProtLocation `json:"location"`
}

type uniProtLocation struct {
	Start *uniProtPosition `json:"start"`
	End   *uniProtPosition `json:"end"`
}

type uniProtPosition struct {
	Value *int `json:"value"`
}

// ParseUniProtFeatures derives a region table from a UniProtKB JSON record
// (rest.uniprot.org/uniprotkb/{accession}.json):
//
//	Signal                          -> signal_peptide
//	Topological domain, extracell.  -> extracellular_domain (first one only)
//	Topological domain, cytoplasmic -> intracellular_loop (last one wins)
//	Transmembrane                   -> M1, M2, ... in record order
//
// Features without a complete location are skipped.
func ParseUniProtFeatures(r io.Reader) (Table, error) {
	var entry uniProtEntry
	if err := json.NewDecoder(r).Decode(&entry); err != nil {
		return nil, pfx.Err(err)
	}

	out := make(Table, 0)
	set := func(name string, start, end int, overwrite bool) {
		for i := range out {
			if out[i].Name == name {
				if overwrite {
					out[i].Start, out[i].End = start, end
				}
				return
			}
		}
		out = append(out, Region{Name: name, Start: start, End: end})
	}

	transmembrane := 1
	for _, f := range entry.Features {
		if f.Location == nil || f.Location.Start == nil || f.Location.End == nil ||
			f.Location.Start.Value == nil || f.Location.End.Value == nil {
			continue
		}
		start, end := *f.Location.Start.Value, *f.Location.End.Value
		desc := strings.ToLower(f.Description)

		switch f.Type {
		case "Signal":
			set("signal_peptide", start, end, true)
		case "Topological domain":
			if strings.Contains(desc, "extracellular") {
				set("extracellular_domain", start, end, false)
			} else if strings.Contains(desc, "cytoplasmic") {
				set("intracellular_loop", start, end, true)
			}
		case "Transmembrane":
			set(fmt.Sprintf("M%d", transmembrane), start, end, true)
			transmembrane++
		}
	}

	return out, nil
}
