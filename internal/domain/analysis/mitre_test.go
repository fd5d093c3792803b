package analysis

import (
	"testing"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToMitre(t *testing.T) {
	suspicious := []domain.AttachmentRecord{{Filename: "invoice.exe", Suspicious: true}}
	benign := []domain.AttachmentRecord{{Filename: "report.pdf"}}

	t.Run("no signals yields no techniques", func(t *testing.T) {
		techniques := MapToMitre(domain.Findings{}, benign)
		assert.Empty(t, techniques)
	})

	t.Run("malicious url maps to spearphishing link", func(t *testing.T) {
		techniques := MapToMitre(domain.Findings{URLMalicious: true}, nil)

		require.Len(t, techniques, 1)
		assert.Equal(t, "T1566.002", techniques[0].Technique)
		assert.Equal(t, "Spearphishing Link", techniques[0].Name)
		assert.Equal(t, "Initial Access", techniques[0].Tactic)
	})

	t.Run("suspicious attachment maps to spearphishing attachment", func(t *testing.T) {
		techniques := MapToMitre(domain.Findings{}, suspicious)

		require.Len(t, techniques, 1)
		assert.Equal(t, "T1566.001", techniques[0].Technique)
		assert.Equal(t, "Spearphishing Attachment", techniques[0].Name)
	})

	t.Run("link technique always precedes attachment technique", func(t *testing.T) {
		techniques := MapToMitre(domain.Findings{URLMalicious: true}, suspicious)

		require.Len(t, techniques, 2)
		assert.Equal(t, "T1566.002", techniques[0].Technique)
		assert.Equal(t, "T1566.001", techniques[1].Technique)
	})
}
