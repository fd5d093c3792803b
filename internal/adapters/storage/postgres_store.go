package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// PostgresStore implements ports.Storage for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the incidents table if it doesn't exist.
//
// Prototype simplifications:
//  1. urls/attachments/mitre as JSONB arrays
//     Why: incidents are always read whole; per-URL or per-attachment
//     querying would want dedicated child tables with their own indexes.
//  2. Workflow fields live on the incident row itself
//     Production: a separate case-management table with an audit trail of
//     who changed status/owner/notes and when.
func (s *PostgresStore) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS incidents (
		id UUID PRIMARY KEY,
		file_name VARCHAR(255) UNIQUE NOT NULL,
		source_email TEXT,
		verdict VARCHAR(10) NOT NULL CHECK (verdict IN ('LEGIT', 'SUSPICIOUS', 'PHISHING')),
		severity VARCHAR(10) NOT NULL CHECK (severity IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL')),
		risk_score INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		urls JSONB NOT NULL,
		attachments JSONB NOT NULL,
		mitre JSONB NOT NULL,
		status VARCHAR(30) NOT NULL DEFAULT 'New',
		owner VARCHAR(100) NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Dashboard default view: newest first, filtered by triage dimensions
	CREATE INDEX IF NOT EXISTS idx_incidents_created ON incidents(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_incidents_verdict ON incidents(verdict, severity);
	CREATE INDEX IF NOT EXISTS idx_incidents_status ON incidents(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveIncident inserts one incident. Re-processing the same report file
// is a no-op rather than an error, which keeps persistence at-least-once
// safe for batch re-runs.
func (s *PostgresStore) SaveIncident(ctx context.Context, incident *domain.Incident) error {
	urlsJSON, err := json.Marshal(incident.URLs)
	if err != nil {
		return fmt.Errorf("failed to marshal urls: %w", err)
	}
	attachmentsJSON, err := json.Marshal(incident.Attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}
	mitreJSON, err := json.Marshal(incident.Mitre)
	if err != nil {
		return fmt.Errorf("failed to marshal mitre techniques: %w", err)
	}

	query := `
		INSERT INTO incidents (
			id, file_name, source_email, verdict, severity, risk_score,
			timestamp, urls, attachments, mitre, status, owner, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (file_name) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		incident.ID, incident.FileName, incident.SourceEmail,
		incident.Verdict, incident.Severity, incident.RiskScore,
		incident.Timestamp, urlsJSON, attachmentsJSON, mitreJSON,
		incident.Status, incident.Owner, incident.Notes,
		incident.CreatedAt, incident.UpdatedAt,
	)
	return err
}

const incidentColumns = `
	id, file_name, source_email, verdict, severity, risk_score,
	timestamp, urls, attachments, mitre, status, owner, notes,
	created_at, updated_at
`

func scanIncident(scanner interface{ Scan(...any) error }) (*domain.Incident, error) {
	incident := &domain.Incident{}
	var urlsJSON, attachmentsJSON, mitreJSON []byte

	err := scanner.Scan(
		&incident.ID, &incident.FileName, &incident.SourceEmail,
		&incident.Verdict, &incident.Severity, &incident.RiskScore,
		&incident.Timestamp, &urlsJSON, &attachmentsJSON, &mitreJSON,
		&incident.Status, &incident.Owner, &incident.Notes,
		&incident.CreatedAt, &incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(urlsJSON, &incident.URLs)
	json.Unmarshal(attachmentsJSON, &incident.Attachments)
	json.Unmarshal(mitreJSON, &incident.Mitre)

	return incident, nil
}

// GetIncident retrieves an incident by ID
func (s *PostgresStore) GetIncident(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`

	incident, err := scanIncident(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return incident, err
}

// ListIncidents retrieves incidents newest-first, optionally filtered by
// verdict, severity and workflow status.
func (s *PostgresStore) ListIncidents(ctx context.Context, filter ports.IncidentFilter) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.Verdict != "" {
		args = append(args, filter.Verdict)
		query += fmt.Sprintf(" AND verdict = $%d", len(args))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := make([]domain.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *incident)
	}

	return incidents, rows.Err()
}

// UpdateWorkflow mutates the case-management fields of one incident.
func (s *PostgresStore) UpdateWorkflow(ctx context.Context, id uuid.UUID, status, owner, notes string) error {
	query := `
		UPDATE incidents
		SET status = $1, owner = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, status, owner, notes, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("incident %s not found", id)
	}
	return nil
}

// CountByVerdict returns incident counts per verdict for the dashboard
// summary tiles.
func (s *PostgresStore) CountByVerdict(ctx context.Context) (map[domain.Verdict]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT verdict, COUNT(1) FROM incidents GROUP BY verdict`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Verdict]int)
	for rows.Next() {
		var verdict domain.Verdict
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, err
		}
		counts[verdict] = n
	}

	return counts, rows.Err()
}
