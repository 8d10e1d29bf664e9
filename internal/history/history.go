package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/reconcile"
)

// Operations recorded in the history.
const (
	OpZone         = "zone"
	OpRRSets       = "rrsets"
	OpRRSetsAbsent = "absent"
)

// EntryRecord is the persistence model of one reconciliation outcome.
// Table name: runs
type EntryRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Zone      string    `gorm:"type:text;not null;index"`
	Operation string    `gorm:"type:text;not null"`
	DryRun    bool      `gorm:"not null"`
	Result    string    `gorm:"type:text;not null"`
	Comment   string    `gorm:"type:text"`
	Changes   string    `gorm:"type:text"` // JSON encoded changes
	CreatedAt time.Time `gorm:"not null;index"`
}

func (EntryRecord) TableName() string { return "runs" }

// Store persists reconciliation outcomes.
type Store struct{ db *gorm.DB }

// OpenFromURL opens the history database and migrates its schema.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./pdns-history.db or sqlite:file::memory:
//   - sqlite3:<dsn>  alias of sqlite
func OpenFromURL(dbURL string) (*Store, error) {
	var dsn string
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite:")
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite3:")
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	if dsn == "" {
		dsn = "./pdns-history.db"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.AutoMigrate(&EntryRecord{}); err != nil {
		return nil, fmt.Errorf("migrating history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores an outcome and returns the generated entry ID.
func (s *Store) Record(ctx context.Context, op string, dryRun bool, out reconcile.Outcome) (string, error) {
	var changes any
	switch {
	case len(out.Changes) > 0:
		changes = out.Changes
	case len(out.RRSetChanges) > 0:
		changes = out.RRSetChanges
	}
	var encoded string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			return "", fmt.Errorf("encoding changes: %w", err)
		}
		encoded = string(data)
	}

	rec := &EntryRecord{
		ID:        "run-" + uuid.NewString(),
		Zone:      out.Name,
		Operation: op,
		DryRun:    dryRun,
		Result:    out.Result.String(),
		Comment:   out.Comment,
		Changes:   encoded,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

// List returns the most recent entries first, optionally filtered by zone.
// A non-positive limit returns every entry.
func (s *Store) List(ctx context.Context, zone string, limit int) ([]EntryRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if zone != "" {
		q = q.Where("zone = ?", zone)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []EntryRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
