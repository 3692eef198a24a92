// Package sources knows where the public chain files live (UCSC's
// goldenPath and Ensembl's assembly_mapping trees) and caches
// downloads on the local filesystem so repeated loads never refetch
package sources

import (
	"fmt"
	"strings"
)

// Resource addresses one remote chain file by provider namespace,
// provider-relative key, and full download URL. The namespace/key pair
// doubles as the cache path
type Resource struct {
	Namespace string
	Key       string
	URL       string
}

// Human assembly names as UCSC spells them
const (
	Hg16 = "hg16"
	Hg17 = "hg17"
	Hg18 = "hg18"
	Hg19 = "hg19" // GRCh37
	Hg38 = "hg38" // GRCh38
	Hs1  = "hs1"  // T2T-CHM13v2.0
)

// UcscAssemblies are the human builds UCSC publishes liftover chains
// between. Not every ordered pair exists upstream; older builds only
// map forward
var UcscAssemblies = []string{Hg16, Hg17, Hg18, Hg19, Hg38, Hs1}

// EnsemblAssemblies are the human builds Ensembl publishes assembly
// mappings between, in Ensembl's GRC naming
var EnsemblAssemblies = []string{"NCBI34", "NCBI35", "NCBI36", "GRCh37", "GRCh38"}

const (
	ucscBaseURL    = "https://hgdownload.soe.ucsc.edu/"
	ensemblBaseURL = "https://ftp.ensembl.org/pub/"
)

// UcscChain is the chain file mapping one UCSC human build to another,
// eg hg19 -> hg38 lives at goldenPath/hg19/liftOver/hg19ToHg38.over.chain.gz
func UcscChain(from, to string) Resource {
	key := fmt.Sprintf("goldenPath/%s/liftOver/%sTo%s.over.chain.gz", from, from, capitalize(to))
	return Resource{Namespace: "ucsc", Key: key, URL: ucscBaseURL + key}
}

// EnsemblChain is the chain file mapping one Ensembl human build to
// another, eg GRCh37 -> GRCh38 lives at
// assembly_mapping/homo_sapiens/GRCh37_to_GRCh38.chain.gz
func EnsemblChain(from, to string) Resource {
	key := fmt.Sprintf("assembly_mapping/homo_sapiens/%s_to_%s.chain.gz", from, to)
	return Resource{Namespace: "ensembl", Key: key, URL: ensemblBaseURL + key}
}

// capitalize uppercases the leading letter the way UCSC does in the
// "To" half of a chain file name, eg hg38 -> Hg38
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
