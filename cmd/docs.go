package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// docsCmd regenerates the Markdown command documentation in ./docs
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate Markdown documentation for every command",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := doc.GenMarkdownTree(RootCmd, "./docs"); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}
