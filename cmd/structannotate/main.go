// structannotate maps variant protein positions onto a 3-D structure and
// writes one row of structural annotations per variant position.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/structmap"
	"github.com/carbocation/structmap/annotate"
	_ "github.com/carbocation/structmap/compileinfoprint"
	"github.com/carbocation/structmap/config"
)

var client *storage.Client

func main() {
	var configFile, pdbFile, siftsFile, uniprotFile, variantsFile, outputFile string
	var chain, centroid string
	var threshold, minCoverage float64
	var workers, bins int
	var linear, histogram bool
	flag.StringVar(&configFile, "config", "", "Optional. Path to a YAML parameter file. Flags given on the command line override its values.")
	flag.StringVar(&pdbFile, "pdb", "", "Path to the structure in PDB format. May be compressed (gzip, bzip2, xz, zip). Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&siftsFile, "sifts", "", "Path to the SIFTS UniProt mapping JSON for the structure (PDBe /mappings/uniprot/{pdb_id}). Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&uniprotFile, "uniprot", "", "Optional. Path to the UniProtKB JSON record, used to label domains. If absent, the domains from --config are used.")
	flag.StringVar(&variantsFile, "variants", "", "Path to the variant table (CSV or TSV) with a protein_position column. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&outputFile, "output", "", "Optional. Path to the output file. Defaults to stdout. A .tsv suffix writes tab-delimited output.")
	flag.StringVar(&chain, "chain", "", "Chain under study (default from --config, else A)")
	flag.StringVar(&centroid, "centroid", "", "Atoms defining the assembly centroid: 'standard' (heavy atoms of standard residues) or 'all' (every heavy atom)")
	flag.Float64Var(&threshold, "threshold", 0, "Proximity cutoff in Angstroms for binding-site and interface calls (default from --config, else 5)")
	flag.Float64Var(&minCoverage, "mincoverage", 0, "Warn when fewer than this fraction of variant positions map to the structure (default from --config, else 0.85)")
	flag.IntVar(&workers, "workers", 0, "Number of positions to annotate concurrently (default from --config, else 1)")
	flag.BoolVar(&linear, "linear", false, "Use a brute-force scan instead of a k-d tree for proximity queries")
	flag.BoolVar(&histogram, "histogram", true, "Print a histogram of minimum ligand distances to stderr")
	flag.IntVar(&bins, "bins", 20, "Number of histogram bins")
	flag.Parse()

	if pdbFile == "" || siftsFile == "" || variantsFile == "" {
		flag.Usage()
		log.Fatalln("Must specify --pdb, --sifts and --variants")
	}

	params, err := config.ReadFile(configFile)
	if err != nil {
		log.Fatalln(err)
	}

	// Explicitly set flags take precedence over the parameter file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chain":
			params.Chain = chain
		case "centroid":
			params.CentroidScope = centroid
		case "threshold":
			params.ProximityThreshold = threshold
		case "mincoverage":
			params.MinCoverage = minCoverage
		case "workers":
			params.Workers = workers
		}
	})
	if err := params.Validate(); err != nil {
		log.Fatalln(err)
	}

	if structmap.IsGoogleStoragePath(pdbFile) ||
		structmap.IsGoogleStoragePath(siftsFile) ||
		structmap.IsGoogleStoragePath(uniprotFile) ||
		structmap.IsGoogleStoragePath(variantsFile) {
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	if err := run(params, pdbFile, siftsFile, uniprotFile, variantsFile, outputFile, linear, histogram, bins); err != nil {
		log.Fatalln(err)
	}
}

func run(params config.Parameters, pdbFile, siftsFile, uniprotFile, variantsFile, outputFile string, linear, histogram bool, bins int) error {
	ctx := context.Background()

	opts := params.Options()
	if linear {
		opts.Index = annotate.LinearIndex
	}

	model, err := loadStructure(ctx, pdbFile, params.PDBID)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s: %d chains (%s), %d atoms, ligands: %s\n",
		model.ID, len(model.Chains), strings.Join(model.ChainIDs(), ","), model.AtomCount(), strings.Join(model.LigandNames(), ","))

	positions, err := loadPositionMap(ctx, siftsFile, params.Accession, opts.Chain)
	if err != nil {
		return err
	}

	labels, err := loadRegions(ctx, uniprotFile, params)
	if err != nil {
		return err
	}

	variantPositions, err := loadVariantPositions(ctx, variantsFile)
	if err != nil {
		return err
	}

	deriver, err := annotate.NewDeriver(model, positions, labels, opts)
	if err != nil {
		return err
	}

	coverage := deriver.Coverage(variantPositions)
	log.Println(coverage)
	if coverage.Below(params.MinCoverage) {
		log.Printf("Warning: structural coverage %.1f%% is below %.1f%%. Unmapped positions: %v\n", 100*coverage.Ratio, 100*params.MinCoverage, coverage.Unmapped)
	}

	records := deriver.Annotate(variantPositions)

	var out io.WriteCloser = os.Stdout
	if outputFile != "" {
		out, err = os.OpenFile(structmap.ExpandHome(outputFile), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	comma := ','
	if strings.HasSuffix(outputFile, ".tsv") {
		comma = '\t'
	}

	bw := bufio.NewWriter(out)
	if err := annotate.WriteCSV(bw, records, comma); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	summary := annotate.Summarize(records)
	log.Println(summary)

	clusters := deriver.ContactClusters(annotate.BindingSitePositions(records))
	log.Printf("Binding-site positions form %d contact clusters: %v\n", len(clusters), clusters)

	if histogram {
		fmt.Fprintln(os.Stderr, "Minimum distance to ligand (Angstroms):")
		if err := annotate.FprintHistogram(os.Stderr, records, bins); err != nil {
			return err
		}
	}

	return nil
}
