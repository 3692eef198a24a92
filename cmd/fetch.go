package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/genomelift/genomelift/config"
	"github.com/genomelift/genomelift/internal/sources"
)

var (
	fetchFrom    string
	fetchTo      string
	fetchEnsembl bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a chain file into the local cache",
	Long: `Download the chain file for a build pair into the local cache so later
map commands work offline. Chain files are only fetched once.`,
	Run: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFrom, "from", "f", "", "source assembly build, eg hg19")
	fetchCmd.Flags().StringVarP(&fetchTo, "to", "t", "", "target assembly build, eg hg38")
	fetchCmd.Flags().BoolVarP(&fetchEnsembl, "ensembl", "e", false, "use Ensembl chain files instead of UCSC")

	fetchCmd.MarkFlagRequired("from")
	fetchCmd.MarkFlagRequired("to")

	RootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	c := config.NewConfig()

	resource := sources.UcscChain(fetchFrom, fetchTo)
	if fetchEnsembl {
		resource = sources.EnsemblChain(fetchFrom, fetchTo)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout())
	defer cancel()

	cache := sources.NewFsCache(c.Cache.Dir, nil)
	path, err := cache.Ensure(ctx, resource)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(path)
}
