package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/genomelift/genomelift/config"
	"github.com/genomelift/genomelift/internal/genome"
	"github.com/genomelift/genomelift/internal/ucscweb"
)

var (
	checkFrom string
	checkTo   string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [regions]",
	Short: "Cross-check engine results against the UCSC web liftover",
	Long: `Map regions with the local engine and with the hgLiftOver web service,
and report any region the two disagree on. The web tool merges adjacent
output fragments, so every web fragment is expected to cover one or
more engine fragments rather than match them one to one.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFrom, "from", "f", "", "source assembly build, eg hg19")
	checkCmd.Flags().StringVarP(&checkTo, "to", "t", "", "target assembly build, eg hg38")

	checkCmd.MarkFlagRequired("from")
	checkCmd.MarkFlagRequired("to")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	regions := make([]genome.Region, len(args))
	for i, arg := range args {
		region, err := genome.ParseRegion(arg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		regions[i] = region
	}

	c := config.NewConfig()
	indexed := loadLiftover(c, checkFrom, checkTo, false).Indexed()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout())
	defer cancel()

	web := ucscweb.NewClient(c.Web.BaseURL)
	settings := ucscweb.DefaultSettings()
	settings.MinMatch = c.Web.MinMatch

	remote, err := web.LiftRegions(ctx, checkFrom, checkTo, regions, settings)
	if err != nil {
		log.Fatalf("hgLiftOver: %v", err)
	}

	disagreements := 0
	for i, region := range regions {
		local := indexed.MapRegion(genome.Fwd(region))
		if agrees(local, remote[i]) {
			fmt.Printf("%s\tok\t%d fragments\n", region, len(local))
			continue
		}
		disagreements++
		fmt.Printf("%s\tMISMATCH\n", region)
		for _, h := range local {
			fmt.Printf("\tengine\t%s:%d-%d\t%s\n", h.Value.Contig.Name(), h.Value.Start, h.Value.End, h.Orientation)
		}
		for _, r := range remote[i] {
			fmt.Printf("\tweb\t%s\n", r)
		}
	}

	if disagreements > 0 {
		log.Fatalf("%d of %d regions disagree", disagreements, len(regions))
	}
}

// agrees checks that every engine fragment is covered by some web
// fragment. The web tool merges adjacent fragments, so it can return
// fewer fragments than the engine but never more
func agrees(local []genome.Oriented[genome.Span[genome.NamedContig]], remote []genome.Region) bool {
	if len(local) == 0 || len(remote) == 0 {
		return len(local) == 0 && len(remote) == 0
	}
	if len(remote) > len(local) {
		return false
	}
	for _, h := range local {
		covered := false
		for _, r := range remote {
			if r.Contig == h.Value.Contig.Name() && r.Start <= h.Value.Start && h.Value.End <= r.End {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
