package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// WriteCSV renders an incident listing as CSV. List-valued columns are
// embedded as JSON strings so a row stays one line regardless of how many
// URLs or attachments an incident carries.
func WriteCSV(w io.Writer, incidents []domain.Incident) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "file", "source_email", "verdict", "severity", "risk_score",
		"timestamp", "urls", "attachments", "mitre", "status", "owner", "notes",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, incident := range incidents {
		urls, err := json.Marshal(incident.URLs)
		if err != nil {
			return fmt.Errorf("marshal urls: %w", err)
		}
		attachments, err := json.Marshal(incident.Attachments)
		if err != nil {
			return fmt.Errorf("marshal attachments: %w", err)
		}
		mitre, err := json.Marshal(incident.Mitre)
		if err != nil {
			return fmt.Errorf("marshal mitre: %w", err)
		}

		record := []string{
			incident.ID.String(),
			incident.FileName,
			incident.SourceEmail,
			string(incident.Verdict),
			string(incident.Severity),
			strconv.Itoa(incident.RiskScore),
			incident.Timestamp,
			string(urls),
			string(attachments),
			string(mitre),
			incident.Status,
			incident.Owner,
			incident.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
