package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ucscChain(t *testing.T) {
	r := UcscChain(Hg19, Hg38)

	assert.Equal(t, "ucsc", r.Namespace)
	assert.Equal(t, "goldenPath/hg19/liftOver/hg19ToHg38.over.chain.gz", r.Key)
	assert.Equal(t, "https://hgdownload.soe.ucsc.edu/goldenPath/hg19/liftOver/hg19ToHg38.over.chain.gz", r.URL)

	// the "To" half of the file name is capitalized, including hs1
	assert.Equal(t, "goldenPath/hg38/liftOver/hg38ToHs1.over.chain.gz", UcscChain(Hg38, Hs1).Key)
}

func Test_ensemblChain(t *testing.T) {
	r := EnsemblChain("GRCh37", "GRCh38")

	assert.Equal(t, "ensembl", r.Namespace)
	assert.Equal(t, "assembly_mapping/homo_sapiens/GRCh37_to_GRCh38.chain.gz", r.Key)
	assert.Equal(t, "https://ftp.ensembl.org/pub/assembly_mapping/homo_sapiens/GRCh37_to_GRCh38.chain.gz", r.URL)
}

func Test_capitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"hg38", "Hg38"},
		{"hs1", "Hs1"},
		{"GRCh38", "GRCh38"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capitalize(tt.in))
	}
}
