package analysis

import "github.com/Lizz6780/phishscope-sentinel/internal/domain"

// Contribution weights for the additive risk model. A confirmed-malicious
// URL overrides the mere-presence bonus; the two never stack.
const (
	weightSPFFail      = 15
	weightDKIMFail     = 15
	weightSpoofing     = 20
	weightMaliciousURL = 30
	weightURLPresence  = 10
	weightIPAbuse      = 25
	weightAttachment   = 35
	ipAbuseThreshold   = 80
)

// CalculateRisk derives the risk score from a findings snapshot. The
// score is a deterministic sum of fixed per-signal weights, applied in a
// fixed order, with no upper clamp: the maximum attainable is 140, and
// the severity ladder already saturates at 81, so values above that are
// preserved verbatim rather than capped.
func CalculateRisk(f domain.Findings) int {
	risk := 0

	if f.SPFFail {
		risk += weightSPFFail
	}
	if f.DKIMFail {
		risk += weightDKIMFail
	}
	if f.Spoofing {
		risk += weightSpoofing
	}

	if f.URLMalicious {
		risk += weightMaliciousURL
	} else if len(f.URLs) > 0 {
		risk += weightURLPresence
	}

	if f.IPAbuseScore > ipAbuseThreshold {
		risk += weightIPAbuse
	}

	// Suspicious attachment indicators are the strongest single signal.
	if f.AttachmentSuspicious {
		risk += weightAttachment
	}

	return risk
}
