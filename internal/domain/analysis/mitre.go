package analysis

import "github.com/Lizz6780/phishscope-sentinel/internal/domain"

// MapToMitre translates findings into MITRE ATT&CK techniques. The output
// order is fixed: the link-based technique always precedes the
// attachment-based one when both apply, regardless of input order.
func MapToMitre(f domain.Findings, attachments []domain.AttachmentRecord) []domain.MitreTechnique {
	techniques := make([]domain.MitreTechnique, 0, 2)

	if f.URLMalicious {
		techniques = append(techniques, domain.MitreTechnique{
			Tactic:    "Initial Access",
			Technique: "T1566.002",
			Name:      "Spearphishing Link",
		})
	}

	if AnySuspicious(attachments) {
		techniques = append(techniques, domain.MitreTechnique{
			Tactic:    "Initial Access",
			Technique: "T1566.001",
			Name:      "Spearphishing Attachment",
		})
	}

	return techniques
}
