package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/carbocation/structmap"
	"github.com/carbocation/structmap/config"
	"github.com/carbocation/structmap/mapping"
	"github.com/carbocation/structmap/pdb"
	"github.com/carbocation/structmap/regions"
	"github.com/carbocation/structmap/sifts"
	"github.com/carbocation/structmap/structure"
	"github.com/carbocation/structmap/variants"
	"gopkg.in/guregu/null.v3"
)

func loadStructure(ctx context.Context, path, pdbID string) (*structure.Model, error) {
	f, err := structmap.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if pdbID == "" {
		pdbID = pdbIDFromPath(path)
	}

	model, err := pdb.Read(f, pdbID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return model, nil
}

// pdbIDFromPath takes the ID from the file name: "gs://b/7kox.pdb.gz" is 7KOX.
func pdbIDFromPath(path string) string {
	return strings.ToUpper(strings.SplitN(filepath.Base(path), ".", 2)[0])
}

// loadPositionMap reads the SIFTS segments for one accession and chain. With
// no accession given, the payload must contain exactly one.
func loadPositionMap(ctx context.Context, path, accession, chain string) (*mapping.PositionMap, error) {
	f, err := structmap.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entry, err := sifts.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if accession == "" {
		accs := entry.Accessions()
		if len(accs) != 1 {
			return nil, fmt.Errorf("%s: no accession given and SIFTS lists %d: %v", path, len(accs), accs)
		}
		accession = accs[0]
	}

	segments, err := entry.Segments(accession, chain)
	if err != nil {
		return nil, err
	}

	positions, mismatches := mapping.Build(segments)
	log.Printf("SIFTS %s/%s chain %s: %d segments, %d rejected, %d positions mapped\n",
		entry.PDBID, accession, chain, len(segments), len(mismatches), positions.Len())

	return positions, nil
}

// loadRegions prefers UniProt features and falls back to the domains in the
// parameter file. With neither, every position is labeled "other".
func loadRegions(ctx context.Context, uniprotPath string, params config.Parameters) (regions.Labeler, error) {
	if uniprotPath != "" {
		f, err := structmap.Open(ctx, uniprotPath, client)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		table, err := regions.ParseUniProtFeatures(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", uniprotPath, err)
		}
		log.Println("Regions from UniProt:", table)

		return table, nil
	}

	table, err := params.Regions()
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		log.Println("Warning: no --uniprot file and no domains in the parameter file. All positions will be labeled", regions.Unassigned)
	} else {
		log.Println("Regions from parameter file:", table)
	}

	return table, nil
}

func loadVariantPositions(ctx context.Context, path string) ([]null.Int, error) {
	f, err := structmap.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vs, err := variants.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	positions := variants.Positions(vs)

	missing := 0
	for _, p := range positions {
		if !p.Valid {
			missing++
		}
	}
	log.Printf("Read %d variants, %d without a protein position\n", len(vs), missing)

	return positions, nil
}
