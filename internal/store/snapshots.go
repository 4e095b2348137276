package store

import (
	"context"
	"encoding/json"
	"time"
)

type Snapshot struct {
	ID        string
	ProjectID string
	Version   int64
	Document  json.RawMessage
	CreatedAt time.Time
}

func (s *Store) CreateSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, project_id, version, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, version, document, created_at`,
		snap.ID, snap.ProjectID, snap.Version, snap.Document)

	var out Snapshot
	err := row.Scan(&out.ID, &out.ProjectID, &out.Version, &out.Document, &out.CreatedAt)
	return out, err
}

// AppendSnapshot stores the document at the next version number for the
// project.
func (s *Store) AppendSnapshot(ctx context.Context, id, projectID string, doc json.RawMessage) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, project_id, version, document)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE project_id = $2),
			$3)
		RETURNING id, project_id, version, document, created_at`,
		id, projectID, doc)

	var out Snapshot
	err := row.Scan(&out.ID, &out.ProjectID, &out.Version, &out.Document, &out.CreatedAt)
	return out, err
}

func (s *Store) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, project_id, version, document, created_at
		FROM snapshots
		WHERE project_id = $1
		ORDER BY version DESC
		LIMIT 1`, projectID)

	var out Snapshot
	err := row.Scan(&out.ID, &out.ProjectID, &out.Version, &out.Document, &out.CreatedAt)
	return out, err
}
