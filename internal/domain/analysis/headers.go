package analysis

import (
	"strings"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// AnalyzeHeaders extracts authentication and spoofing signals from a
// message's header map.
//
// Email authentication standards (SPF, DKIM) verify that a message was
// legitimately sent from the claimed domain. Failures of either check are
// strong spoofing indicators. Absent headers degrade gracefully: every
// signal defaults to false and reported raw values fall back to "unknown".
func AnalyzeHeaders(headers map[string]string) domain.HeaderFindings {
	spfHeader := strings.ToLower(headerValue(headers, "Received-SPF"))
	authResults := strings.ToLower(headerValue(headers, "Authentication-Results"))

	fromAddr := headerValue(headers, "From")
	returnPath := headerValue(headers, "Return-Path")

	findings := domain.HeaderFindings{
		From:       fromAddr,
		ReturnPath: returnPath,
		SPF:        spfHeader,
		DKIM:       authResults,

		// SPF verifies the sending server is authorized by the domain owner.
		SPFFail: strings.Contains(spfHeader, "fail"),

		// DKIM uses cryptographic signatures to verify the message wasn't
		// tampered with; the verdict lands in Authentication-Results.
		DKIMFail: strings.Contains(authResults, "dkim=fail"),

		// Spoofing heuristic: declared sender differs from the bounce
		// address. Only meaningful when both headers are present.
		Spoofing: fromAddr != "" && returnPath != "" && !strings.Contains(returnPath, fromAddr),
	}

	if findings.SPF == "" {
		findings.SPF = "unknown"
	}
	if findings.DKIM == "" {
		findings.DKIM = "unknown"
	}

	return findings
}

// headerValue looks a header up by name, tolerating the key casing
// differences between raw messages and Go's canonicalized MIME keys.
// Absent headers resolve to the empty string.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for key, v := range headers {
		if strings.EqualFold(key, name) {
			return v
		}
	}
	return ""
}
