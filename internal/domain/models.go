package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the final classification of a message.
type Verdict string

const (
	VerdictLegit      Verdict = "LEGIT"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictPhishing   Verdict = "PHISHING"
)

// Severity is the triage urgency tier of an incident.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// EmailMessage is the parsed form of one raw email: a header map, the
// plain-text body, and the MIME part sequence. It is read-only input to
// the triage pipeline.
type EmailMessage struct {
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
	Parts   []MessagePart     `json:"parts"`
}

// MessagePart is a single MIME part as seen by the attachment analyzer.
// Payload may be nil for parts whose content could not be decoded.
type MessagePart struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Disposition string `json:"disposition"`
	Payload     []byte `json:"-"`
}

// HeaderFindings captures authentication and spoofing signals extracted
// from message headers. Built once per message, immutable after that.
type HeaderFindings struct {
	From       string `json:"from"`
	ReturnPath string `json:"return_path"`
	SPF        string `json:"spf"`
	DKIM       string `json:"dkim"`
	SPFFail    bool   `json:"spf_fail"`
	DKIMFail   bool   `json:"dkim_fail"`
	Spoofing   bool   `json:"spoofing"`
}

// AttachmentRecord describes one attachment-like MIME part and why (if at
// all) it was flagged.
type AttachmentRecord struct {
	Filename    string   `json:"filename"`
	ContentType string   `json:"content_type"`
	SizeBytes   int      `json:"size_bytes"`
	Suspicious  bool     `json:"suspicious"`
	Reasons     []string `json:"reasons"`
}

// URLReputation is the result of a URL reputation lookup. Clients return
// the zero value on any lookup failure so the pipeline never blocks on
// intel availability.
type URLReputation struct {
	Malicious  bool `json:"malicious"`
	Detections int  `json:"detections"`
}

// Findings aggregates every detection signal for one message. It is
// assembled once by the pipeline and consumed by the risk engine and the
// MITRE mapper; it is never mutated after assembly.
type Findings struct {
	HeaderFindings
	URLs                 []string `json:"urls"`
	URLMalicious         bool     `json:"url_malicious"`
	IPAbuseScore         int      `json:"ip_abuse_score"`
	AttachmentSuspicious bool     `json:"attachment_suspicious"`
}

// MitreTechnique is one entry from the MITRE ATT&CK taxonomy mapped from
// the message's findings.
type MitreTechnique struct {
	Tactic    string `json:"tactic"`
	Technique string `json:"technique"`
	Name      string `json:"name"`
}

// StatusNew is the workflow status assigned to every fresh incident.
const StatusNew = "New"

// Incident is the terminal, persisted outcome of one pipeline run.
// Status, Owner and Notes are workflow fields: the pipeline only sets
// their defaults; the dashboard mutates them afterwards.
type Incident struct {
	ID          uuid.UUID          `json:"id"`
	FileName    string             `json:"file"`
	SourceEmail string             `json:"source_email"`
	Verdict     Verdict            `json:"verdict"`
	Severity    Severity           `json:"severity"`
	RiskScore   int                `json:"risk_score"`
	URLs        []string           `json:"urls"`
	Attachments []AttachmentRecord `json:"attachments"`
	Mitre       []MitreTechnique   `json:"mitre"`
	Timestamp   string             `json:"timestamp"`
	Status      string             `json:"status"`
	Owner       string             `json:"owner"`
	Notes       string             `json:"notes"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// VerdictForScore maps a risk score to its verdict.
func VerdictForScore(score int) Verdict {
	switch {
	case score >= 61:
		return VerdictPhishing
	case score >= 31:
		return VerdictSuspicious
	default:
		return VerdictLegit
	}
}

// SeverityForScore maps a risk score to its triage severity.
//
// The severity ladder has four tiers against the verdict ladder's three,
// and the two are intentionally not aligned: 61..80 is PHISHING+HIGH
// while 81+ is still PHISHING but CRITICAL. Keep the ladders independent.
func SeverityForScore(score int) Severity {
	switch {
	case score >= 81:
		return SeverityCritical
	case score >= 61:
		return SeverityHigh
	case score >= 31:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
