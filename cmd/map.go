package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genomelift/genomelift/config"
	"github.com/genomelift/genomelift/internal/genome"
	"github.com/genomelift/genomelift/internal/liftover"
	"github.com/genomelift/genomelift/internal/sources"
)

var (
	mapFrom    string
	mapTo      string
	mapBedPath string
	mapEnsembl bool
	mapLinear  bool
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map [positions and regions]",
	Short: "Map positions or regions from one assembly build to another",
	Long: `Map positions or regions from one assembly build to another.

Arguments are 0-based positions like "chr7:117559590" or half-open
regions like "chr7:117559590-117559620". A region that straddles a gap
in the alignment comes back as several disjoint fragments; a position
that falls in a gap comes back empty. The chain file for the build
pair is downloaded on first use and cached.`,
	Run: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapFrom, "from", "f", "", "source assembly build, eg hg19")
	mapCmd.Flags().StringVarP(&mapTo, "to", "t", "", "target assembly build, eg hg38")
	mapCmd.Flags().StringVarP(&mapBedPath, "bed", "b", "", "path to a BED file of regions to map")
	mapCmd.Flags().BoolVarP(&mapEnsembl, "ensembl", "e", false, "use Ensembl chain files instead of UCSC")
	mapCmd.Flags().BoolVarP(&mapLinear, "linear", "l", false, "scan chains directly instead of building the index")

	mapCmd.MarkFlagRequired("from")
	mapCmd.MarkFlagRequired("to")

	RootCmd.AddCommand(mapCmd)
}

// mapper is the query surface shared by the linear and the indexed
// engine
type mapper interface {
	MapPoint(genome.Oriented[genome.Point]) []genome.Oriented[genome.Position[genome.NamedContig]]
	MapRegion(genome.Oriented[genome.Region]) []genome.Oriented[genome.Span[genome.NamedContig]]
}

func runMap(cmd *cobra.Command, args []string) {
	if len(args) == 0 && mapBedPath == "" {
		log.Fatalf("nothing to map: pass positions/regions or --bed")
	}

	c := config.NewConfig()
	lift := loadLiftover(c, mapFrom, mapTo, mapEnsembl)

	var m mapper = lift
	if !mapLinear {
		m = lift.Indexed()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, arg := range args {
		if isRegionArg(arg) {
			region, err := genome.ParseRegion(arg)
			if err != nil {
				log.Fatalf("%v", err)
			}
			printSpans(out, arg, m.MapRegion(genome.Fwd(region)))
		} else {
			point, err := genome.ParsePoint(arg)
			if err != nil {
				log.Fatalf("%v", err)
			}
			printPositions(out, arg, m.MapPoint(genome.Fwd(point)))
		}
	}

	if mapBedPath != "" {
		if err := mapBed(out, m, mapBedPath); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

// isRegionArg distinguishes "chr7:100-200" from "chr7:100"
func isRegionArg(arg string) bool {
	_, coords, ok := strings.Cut(arg, ":")
	return ok && strings.Contains(coords, "-")
}

func printPositions(out *bufio.Writer, query string, hits []genome.Oriented[genome.Position[genome.NamedContig]]) {
	if len(hits) == 0 {
		fmt.Fprintf(out, "%s\t-\n", query)
		return
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%s\t%s:%d\t%s\n", query, h.Value.Contig.Name(), h.Value.At, h.Orientation)
	}
}

func printSpans(out *bufio.Writer, query string, hits []genome.Oriented[genome.Span[genome.NamedContig]]) {
	if len(hits) == 0 {
		fmt.Fprintf(out, "%s\t-\n", query)
		return
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%s\t%s:%d-%d\t%s\n", query, h.Value.Contig.Name(), h.Value.Start, h.Value.End, h.Orientation)
	}
}

// mapBed maps each region of a BED file, writing one output line per
// mapped fragment with the original region in the name column
func mapBed(out *bufio.Writer, m mapper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "track") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return fmt.Errorf("%s:%d: malformed BED line: %q", path, line, text)
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		end, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}

		region := genome.Region{Contig: fields[0], Start: start, End: end}
		for _, h := range m.MapRegion(genome.Fwd(region)) {
			fmt.Fprintf(out, "%s\t%d\t%d\t%s\t0\t%s\n",
				h.Value.Contig.Name(), h.Value.Start, h.Value.End, region, h.Orientation)
		}
	}
	return sc.Err()
}

// loadLiftover fetches (or reuses) the chain file for a build pair and
// parses it
func loadLiftover(c config.Config, from, to string, ensembl bool) *liftover.Liftover[genome.NamedContig, genome.NamedContig] {
	resource := sources.UcscChain(from, to)
	if ensembl {
		resource = sources.EnsemblChain(from, to)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout())
	defer cancel()

	cache := sources.NewFsCache(c.Cache.Dir, nil)
	lift, err := sources.Load(ctx, cache, resource)
	if err != nil {
		log.Fatalf("load %s: %v", resource.URL, err)
	}
	return lift
}
