package ports

import "github.com/Lizz6780/phishscope-sentinel/internal/domain"

// MessageSource loads and parses one raw email message. A parse failure
// is terminal for that message: it is the only error class that aborts a
// pipeline run.
type MessageSource interface {
	Load(path string) (*domain.EmailMessage, error)
}

// ReportWriter emits a standalone report artifact for one incident and
// returns the name of the artifact it wrote.
type ReportWriter interface {
	Write(incident *domain.Incident) (string, error)
}
