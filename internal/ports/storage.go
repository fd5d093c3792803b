package ports

import (
	"context"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/google/uuid"
)

// IncidentFilter narrows incident listings for the dashboard. Zero values
// mean "no filter" for that dimension.
type IncidentFilter struct {
	Verdict  domain.Verdict
	Severity domain.Severity
	Status   string
	Limit    int
}

// Storage defines the contract for persisting and querying incidents
type Storage interface {
	// SaveIncident persists one freshly computed incident. Persistence is
	// at-least-once: a duplicate file name is not an error.
	SaveIncident(ctx context.Context, incident *domain.Incident) error

	GetIncident(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error)

	// UpdateWorkflow mutates the case-management fields of an existing
	// incident. These are the only fields that ever change after creation.
	UpdateWorkflow(ctx context.Context, id uuid.UUID, status, owner, notes string) error

	// CountByVerdict backs the dashboard summary tiles.
	CountByVerdict(ctx context.Context) (map[domain.Verdict]int, error)

	// Lifecycle
	Close() error
}
