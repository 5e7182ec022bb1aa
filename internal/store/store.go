// Package store persists the menu document and the export history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/db"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// StateKey is the storage key of the document.
const StateKey = "ai_menu_builder_state"

// tsLayout sorts lexically in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// StateStore keeps one AppState under StateKey.
type StateStore struct {
	db     *db.DB
	ids    menu.IDGenerator
	logger zerolog.Logger
}

// New creates a StateStore backed by the given database. ids fills in
// identifiers missing from stored documents.
func New(database *db.DB, ids menu.IDGenerator, logger zerolog.Logger) *StateStore {
	return &StateStore{db: database, ids: ids, logger: logger}
}

// Marshal encodes st canonically. Encoding the decoded result again
// yields the same bytes.
func Marshal(st menu.AppState) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored document. Fields the blob lacks keep their
// zero value; callers normalize.
func Unmarshal(data []byte) (menu.AppState, error) {
	var st menu.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return menu.AppState{}, fmt.Errorf("decoding state: %w", err)
	}
	return st, nil
}

// Load returns the stored document, or the default document when nothing
// usable is stored. A corrupt blob is logged, not returned as an error.
func (s *StateStore) Load(ctx context.Context) (menu.AppState, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_state WHERE key = ?`, StateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return menu.NewAppState(), nil
	}
	if err != nil {
		return menu.AppState{}, fmt.Errorf("loading state: %w", err)
	}

	st, err := Unmarshal([]byte(value))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", StateKey).Msg("stored state is unreadable, starting from defaults")
		return menu.NewAppState(), nil
	}
	return menu.Normalize(st, s.ids), nil
}

// Save writes st, replacing what was stored.
func (s *StateStore) Save(ctx context.Context, st menu.AppState) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		StateKey, string(data))
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Clear removes the stored document.
func (s *StateStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_state WHERE key = ?`, StateKey); err != nil {
		return fmt.Errorf("clearing state: %w", err)
	}
	return nil
}

// RecordExport inserts an export run. If run.ID is empty a UUID is
// generated.
func (s *StateStore) RecordExport(ctx context.Context, run export.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	files, err := json.Marshal(run.Files)
	if err != nil {
		return fmt.Errorf("marshalling files: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO export_runs (id, kind, files, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		string(files),
		run.Status,
		run.Error,
		run.StartedAt.UTC().Format(tsLayout),
		run.FinishedAt.UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting export run: %w", err)
	}
	return nil
}

// ListExports returns the most recent runs first. limit <= 0 returns all.
func (s *StateStore) ListExports(ctx context.Context, limit int) ([]export.Run, error) {
	query := `SELECT id, kind, files, status, error, started_at, finished_at
		FROM export_runs ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying export runs: %w", err)
	}
	defer rows.Close()

	var runs []export.Run
	for rows.Next() {
		var (
			r                 export.Run
			kind, filesJSON   string
			started, finished string
		)
		if err := rows.Scan(&r.ID, &kind, &filesJSON, &r.Status, &r.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning export run: %w", err)
		}
		r.Kind = export.Kind(kind)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		if err := json.Unmarshal([]byte(filesJSON), &r.Files); err != nil {
			r.Files = nil
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{tsLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
