// Package localstore persists per-project inventory snapshots in the local
// database. It is the offline fallback: every save writes here, and loads
// read from here whenever the vendor API is unreachable.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoSnapshot indicates no snapshot has been saved for the project yet.
var ErrNoSnapshot = errors.New("localstore: no snapshot for project")

// Snapshot is one serialized inventory collection keyed by project.
type Snapshot struct {
	ProjectID string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Store reads and writes snapshots.
type Store struct {
	db *gorm.DB
}

// New creates a snapshot store and migrates its table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts the snapshot for a project.
func (s *Store) Save(ctx context.Context, projectID string, data []byte) error {
	snap := Snapshot{ProjectID: projectID, Data: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&snap).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot for project %s: %w", projectID, err)
	}
	return nil
}

// Load returns the stored snapshot payload for a project.
func (s *Store) Load(ctx context.Context, projectID string) ([]byte, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).First(&snap, "project_id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for project %s: %w", projectID, err)
	}
	return snap.Data, nil
}
