// varprioritize joins the variant table with the structural annotations,
// scores and ranks every variant, and tests whether structural features are
// enriched among the high-priority ones.
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
	"github.com/carbocation/structmap/priority"
	"github.com/carbocation/structmap/regions"
	"github.com/carbocation/structmap/variants"
)

var client *storage.Client

func main() {
	var configFile, variantsFile, annotationsFile, outputFile, enrichmentFile string
	var top int
	flag.StringVar(&configFile, "config", "", "Optional. Path to a YAML parameter file; its pore_regions and transmembrane_regions are used.")
	flag.StringVar(&variantsFile, "variants", "", "Path to the variant table (CSV or TSV). Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&annotationsFile, "annotations", "", "Path to the output of structannotate. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&outputFile, "output", "", "Optional. Path to the ranked variant table. Defaults to stdout.")
	flag.StringVar(&enrichmentFile, "enrichment", "", "Optional. Path to the enrichment table (TSV). Defaults to stderr.")
	flag.IntVar(&top, "top", 15, "Number of top-ranked variants to log")
	flag.Parse()

	if variantsFile == "" || annotationsFile == "" {
		flag.Usage()
		log.Fatalln("Must specify --variants and --annotations")
	}

	params, err := config.ReadFile(configFile)
	if err != nil {
		log.Fatalln(err)
	}

	if structmap.IsGoogleStoragePath(variantsFile) || structmap.IsGoogleStoragePath(annotationsFile) {
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	if err := run(params, variantsFile, annotationsFile, outputFile, enrichmentFile, top); err != nil {
		log.Fatalln(err)
	}
}

func run(params config.Parameters, variantsFile, annotationsFile, outputFile, enrichmentFile string, top int) error {
	ctx := context.Background()

	vs, err := readVariants(ctx, variantsFile)
	if err != nil {
		return err
	}

	records, err := readAnnotations(ctx, annotationsFile)
	if err != nil {
		return err
	}

	scored := Join(vs, records, params.PoreRegions)
	ranked := priority.Rank(Evidence(scored))

	out, err := create(outputFile, os.Stdout)
	if err != nil {
		return err
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := WriteRanked(bw, scored, ranked); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	logSummary(scored, ranked, top)

	enr, err := create(enrichmentFile, os.Stderr)
	if err != nil {
		return err
	}
	defer enr.Close()

	return WriteEnrichment(enr, scored, ranked)
}

func readVariants(ctx context.Context, path string) ([]variants.Variant, error) {
	f, err := structmap.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vs, err := variants.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return vs, nil
}

func readAnnotations(ctx context.Context, path string) ([]annotate.Record, error) {
	f, err := structmap.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := annotate.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// create opens path for writing, or returns fallback wrapped so that closing
// it is a no-op.
func create(path string, fallback *os.File) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{fallback}, nil
	}

	return os.OpenFile(structmap.ExpandHome(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func logSummary(scored []Scored, ranked []priority.Ranked, top int) {
	counts := priority.Counts(ranked)
	log.Printf("Priority categories: %s %d, %s %d, %s %d, %s %d\n",
		priority.High, counts[priority.High],
		priority.Medium, counts[priority.Medium],
		priority.Low, counts[priority.Low],
		priority.VeryLow, counts[priority.VeryLow])

	if desc, err := DescribeScores(ranked); err == nil {
		log.Println("Score distribution:", desc)
	}

	if top > len(ranked) {
		top = len(ranked)
	}
	lines := make([]string, 0, top)
	for _, r := range ranked[:top] {
		s := scored[r.Index]
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%d", s.Variant.RSID, nullIntFormatter(s.Variant.Position), s.Region, r.Score))
	}
	log.Printf("Top %d variants (rsid, position, region, score):\n%s\n", top, strings.Join(lines, "\n"))
}

func isPore(region string, pores []string) bool {
	return regions.Matches(region, pores)
}
