// Package config reads the YAML parameter file shared by the command line
// tools. Flags given on the command line override the file.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap"
	"github.com/carbocation/structmap/annotate"
	"github.com/carbocation/structmap/regions"
	"gopkg.in/yaml.v3"
)

// DefaultMinCoverage is the mapped fraction below which a warning is logged.
const DefaultMinCoverage = 0.85

type Parameters struct {
	PDBID     string `yaml:"pdb_id"`
	Accession string `yaml:"accession"`
	Chain     string `yaml:"chain"`

	ProximityThreshold float64 `yaml:"proximity_threshold"`
	MinCoverage        float64 `yaml:"min_coverage"`

	TransmembraneRegions []string `yaml:"transmembrane_regions"`
	PoreRegions          []string `yaml:"pore_regions"`
	CentroidScope        string   `yaml:"centroid_scope"`
	Workers              int      `yaml:"workers"`

	// Domains are name -> [start, end], inclusive.
	Domains map[string][2]int `yaml:"domains"`
}

// Default returns the parameters for CHRNA7 (P36544). The PDB ID is left
// empty so that it is taken from the structure's file name.
func Default() Parameters {
	opts := annotate.DefaultOptions()

	return Parameters{
		Accession:            "P36544",
		Chain:                opts.Chain,
		ProximityThreshold:   opts.Threshold,
		MinCoverage:          DefaultMinCoverage,
		TransmembraneRegions: opts.TransmembraneRegions,
		PoreRegions:          opts.PoreRegions,
		CentroidScope:        string(opts.CentroidScope),
		Workers:              opts.Workers,
	}
}

// Read decodes a parameter file over the defaults, so keys absent from the
// file keep their default value.
func Read(r io.Reader) (Parameters, error) {
	p := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return p, pfx.Err(err)
	}

	return p, p.Validate()
}

// ReadFile reads the parameter file at path. An empty path gives the
// defaults.
func ReadFile(path string) (Parameters, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(structmap.ExpandHome(path))
	if err != nil {
		return Parameters{}, pfx.Err(err)
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

func (p Parameters) Validate() error {
	if strings.TrimSpace(p.Chain) == "" {
		return fmt.Errorf("chain must be set")
	}
	if p.ProximityThreshold <= 0 {
		return fmt.Errorf("proximity_threshold must be positive, got %v", p.ProximityThreshold)
	}
	if p.MinCoverage < 0 || p.MinCoverage > 1 {
		return fmt.Errorf("min_coverage must be within [0, 1], got %v", p.MinCoverage)
	}
	switch annotate.CentroidScope(p.CentroidScope) {
	case annotate.CentroidStandard, annotate.CentroidAllHeavy, "":
	default:
		return fmt.Errorf("centroid_scope must be %q or %q, got %q", annotate.CentroidStandard, annotate.CentroidAllHeavy, p.CentroidScope)
	}
	for name, b := range p.Domains {
		if b[1] < b[0] {
			return fmt.Errorf("domain %s ends (%d) before it starts (%d)", name, b[1], b[0])
		}
	}

	return nil
}

// Options converts the parameters to annotation options.
func (p Parameters) Options() annotate.Options {
	opts := annotate.DefaultOptions()
	opts.Chain = p.Chain
	opts.Threshold = p.ProximityThreshold
	opts.TransmembraneRegions = p.TransmembraneRegions
	opts.PoreRegions = p.PoreRegions
	opts.CentroidScope = annotate.CentroidScope(p.CentroidScope)
	opts.Workers = p.Workers

	return opts
}

// Regions returns the domain table from the file, or nil if it has none.
func (p Parameters) Regions() (regions.Table, error) {
	if len(p.Domains) == 0 {
		return nil, nil
	}

	return regions.FromBounds(p.Domains)
}

// Write encodes the parameters as YAML.
func (p Parameters) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return pfx.Err(err)
	}
	if err := enc.Close(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
