package cmd

import (
	"io"
	"log"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/spf13/cobra"

	"github.com/genomelift/genomelift/config"
	"github.com/genomelift/genomelift/internal/genome"
)

var (
	bamFrom    string
	bamTo      string
	bamIn      string
	bamOut     string
	bamEnsembl bool
	bamThreads int
)

// bamCmd represents the bam command
var bamCmd = &cobra.Command{
	Use:   "bam",
	Short: "Lift the alignments of a BAM file onto another assembly build",
	Long: `Lift the alignments of a BAM file onto another assembly build.

The output header carries the target build's contigs. Records whose
position doesn't map cleanly to a single forward-strand target are
dropped and counted; a record whose mate doesn't map keeps its own
coordinates but loses the mate's.`,
	Run: runBam,
}

func init() {
	bamCmd.Flags().StringVarP(&bamFrom, "from", "f", "", "source assembly build, eg hg19")
	bamCmd.Flags().StringVarP(&bamTo, "to", "t", "", "target assembly build, eg hg38")
	bamCmd.Flags().StringVarP(&bamIn, "in", "i", "", "input BAM file")
	bamCmd.Flags().StringVarP(&bamOut, "out", "o", "", "output BAM file")
	bamCmd.Flags().BoolVarP(&bamEnsembl, "ensembl", "e", false, "use Ensembl chain files instead of UCSC")
	bamCmd.Flags().IntVarP(&bamThreads, "threads", "p", 0, "number of decompression threads (0 = auto)")

	bamCmd.MarkFlagRequired("from")
	bamCmd.MarkFlagRequired("to")
	bamCmd.MarkFlagRequired("in")
	bamCmd.MarkFlagRequired("out")

	RootCmd.AddCommand(bamCmd)
}

func runBam(cmd *cobra.Command, args []string) {
	c := config.NewConfig()
	lift := loadLiftover(c, bamFrom, bamTo, bamEnsembl)
	indexed := lift.Indexed()

	in, err := os.Open(bamIn)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer in.Close()

	br, err := bam.NewReader(in, bamThreads)
	if err != nil {
		log.Fatalf("read %s: %v", bamIn, err)
	}
	defer br.Close()

	// one reference per target contig, in name order
	refByName := make(map[string]*sam.Reference)
	var refs []*sam.Reference
	for _, contig := range lift.TargetContigs() {
		ref, err := sam.NewReference(contig.Name(), "", "", int(contig.Size()), nil, nil)
		if err != nil {
			log.Fatalf("reference %s: %v", contig.Name(), err)
		}
		refByName[contig.Name()] = ref
		refs = append(refs, ref)
	}
	header, err := sam.NewHeader(nil, refs)
	if err != nil {
		log.Fatalf("%v", err)
	}

	out, err := os.Create(bamOut)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer out.Close()

	bw, err := bam.NewWriter(out, header, bamThreads)
	if err != nil {
		log.Fatalf("write %s: %v", bamOut, err)
	}
	defer bw.Close()

	var lifted, dropped int
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("read %s: %v", bamIn, err)
		}

		ref, pos, ok := liftAlignment(indexed, refByName, rec.Ref, rec.Pos)
		if !ok {
			dropped++
			continue
		}
		rec.Ref = ref
		rec.Pos = pos

		if mateRef, matePos, ok := liftAlignment(indexed, refByName, rec.MateRef, rec.MatePos); ok {
			rec.MateRef = mateRef
			rec.MatePos = matePos
		} else {
			rec.MateRef = nil
			rec.MatePos = -1
		}

		if err := bw.Write(rec); err != nil {
			log.Fatalf("write %s: %v", bamOut, err)
		}
		lifted++
	}

	log.Printf("lifted %d alignments (%d dropped)", lifted, dropped)
}

// liftAlignment maps one alignment start. Only a unique forward-strand
// hit is usable: reversing an alignment would also need its CIGAR and
// sequence flipped
func liftAlignment(m mapper, refs map[string]*sam.Reference, ref *sam.Reference, pos int) (*sam.Reference, int, bool) {
	if ref == nil || pos < 0 {
		return nil, -1, false
	}

	hits := m.MapPoint(genome.Fwd(genome.Point{Contig: ref.Name(), At: uint64(pos)}))
	if len(hits) != 1 || hits[0].Orientation == genome.Reverse {
		return nil, -1, false
	}

	target, ok := refs[hits[0].Value.Contig.Name()]
	if !ok {
		return nil, -1, false
	}
	return target, int(hits[0].Value.At), true
}
