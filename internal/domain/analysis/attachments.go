package analysis

import (
	"strings"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// suspiciousExtensions is the denylist of file-type suffixes associated
// with executable, script, installer, macro-enabled office and disk-image
// content. Malicious attachments remain the most common malware delivery
// vector, and these types can all run code on the victim's machine.
var suspiciousExtensions = []string{
	".exe", ".scr", ".js", ".jse", ".vbs", ".vbe", ".wsf",
	".bat", ".cmd", ".ps1", ".hta", ".jar", ".iso", ".img",
	".lnk", ".dll", ".msi", ".docm", ".xlsm", ".pptm",
}

const (
	ReasonSuspiciousExtension = "suspicious_extension"
	ReasonDoubleExtension     = "double_extension"
)

// AnalyzeAttachments inspects the message's MIME parts and returns one
// record per attachment-like part.
//
// A part counts as an attachment if its content disposition is
// "attachment" (case-insensitive) or it carries a filename; anything else
// is skipped. A denylisted extension or a double extension (the classic
// invoice.pdf.exe trick) marks the record suspicious.
func AnalyzeAttachments(parts []domain.MessagePart) []domain.AttachmentRecord {
	records := make([]domain.AttachmentRecord, 0)

	for _, part := range parts {
		disposition := strings.ToLower(part.Disposition)
		if disposition != "attachment" && part.Filename == "" {
			continue
		}

		lowerName := strings.ToLower(part.Filename)

		reasons := make([]string, 0)
		for _, ext := range suspiciousExtensions {
			if strings.HasSuffix(lowerName, ext) {
				reasons = append(reasons, ReasonSuspiciousExtension)
				break
			}
		}
		if strings.Count(lowerName, ".") >= 2 {
			reasons = append(reasons, ReasonDoubleExtension)
		}

		filename := part.Filename
		if filename == "" {
			filename = "unknown"
		}

		records = append(records, domain.AttachmentRecord{
			Filename:    filename,
			ContentType: part.ContentType,
			SizeBytes:   len(part.Payload),
			Suspicious:  len(reasons) > 0,
			Reasons:     reasons,
		})
	}

	return records
}

// AnySuspicious reports whether at least one attachment record is flagged.
func AnySuspicious(records []domain.AttachmentRecord) bool {
	for _, rec := range records {
		if rec.Suspicious {
			return true
		}
	}
	return false
}
