package cmd

import (
	"log"
	"os"

	"github.com/brentp/vcfgo"
	"github.com/spf13/cobra"

	"github.com/genomelift/genomelift/config"
	"github.com/genomelift/genomelift/internal/genome"
)

var (
	vcfFrom    string
	vcfTo      string
	vcfIn      string
	vcfOut     string
	vcfEnsembl bool
)

// vcfCmd represents the vcf command
var vcfCmd = &cobra.Command{
	Use:   "vcf",
	Short: "Lift the records of a VCF file onto another assembly build",
	Long: `Lift the records of a VCF file onto another assembly build.

Records whose position doesn't map, maps to several places, or lands on
the reverse strand (where the alleles would need complementing) are
dropped and counted.`,
	Run: runVcf,
}

func init() {
	vcfCmd.Flags().StringVarP(&vcfFrom, "from", "f", "", "source assembly build, eg hg19")
	vcfCmd.Flags().StringVarP(&vcfTo, "to", "t", "", "target assembly build, eg hg38")
	vcfCmd.Flags().StringVarP(&vcfIn, "in", "i", "", "input VCF file")
	vcfCmd.Flags().StringVarP(&vcfOut, "out", "o", "", "output VCF file")
	vcfCmd.Flags().BoolVarP(&vcfEnsembl, "ensembl", "e", false, "use Ensembl chain files instead of UCSC")

	vcfCmd.MarkFlagRequired("from")
	vcfCmd.MarkFlagRequired("to")
	vcfCmd.MarkFlagRequired("in")
	vcfCmd.MarkFlagRequired("out")

	RootCmd.AddCommand(vcfCmd)
}

func runVcf(cmd *cobra.Command, args []string) {
	c := config.NewConfig()
	lift := loadLiftover(c, vcfFrom, vcfTo, vcfEnsembl).Indexed()

	in, err := os.Open(vcfIn)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer in.Close()

	rdr, err := vcfgo.NewReader(in, false)
	if err != nil {
		log.Fatalf("read %s: %v", vcfIn, err)
	}

	out, err := os.Create(vcfOut)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer out.Close()

	wtr, err := vcfgo.NewWriter(out, rdr.Header)
	if err != nil {
		log.Fatalf("write %s: %v", vcfOut, err)
	}

	var lifted, unmapped, multi, flipped int
	for {
		variant := rdr.Read()
		if variant == nil {
			break
		}

		// VCF positions are 1-based
		hits := lift.MapPoint(genome.Fwd(genome.Point{
			Contig: variant.Chromosome,
			At:     variant.Pos - 1,
		}))

		switch {
		case len(hits) == 0:
			unmapped++
			continue
		case len(hits) > 1:
			multi++
			continue
		case hits[0].Orientation == genome.Reverse:
			flipped++
			continue
		}

		variant.Chromosome = hits[0].Value.Contig.Name()
		variant.Pos = hits[0].Value.At + 1
		wtr.WriteVariant(variant)
		lifted++
	}

	log.Printf("lifted %d records (%d unmapped, %d multi-mapped, %d strand-flipped)",
		lifted, unmapped, multi, flipped)
}
