// Package persistence provides SQLite-based storage of finished runs.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/flood-response/internal/engine"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		mode TEXT NOT NULL,
		seed INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		total_incidents INTEGER NOT NULL,
		resolved_incidents INTEGER NOT NULL,
		avg_response_time REAL NOT NULL,
		system_efficiency REAL NOT NULL,
		bottleneck_events INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS backlog (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		pending INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS incidents (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		category TEXT NOT NULL,
		location TEXT NOT NULL,
		water_depth REAL NOT NULL,
		urgency REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_backlog_run ON backlog(run_id);
	CREATE INDEX IF NOT EXISTS idx_incidents_run ON incidents(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunSummary is the stored header of one run.
type RunSummary struct {
	ID                string  `db:"id" json:"id"`
	Scenario          string  `db:"scenario" json:"scenario"`
	Mode              string  `db:"mode" json:"mode"`
	Seed              int64   `db:"seed" json:"seed"`
	Steps             int     `db:"steps" json:"steps"`
	TotalIncidents    int     `db:"total_incidents" json:"total_incidents"`
	ResolvedIncidents int     `db:"resolved_incidents" json:"resolved_incidents"`
	AvgResponseTime   float64 `db:"avg_response_time" json:"avg_response_time"`
	SystemEfficiency  float64 `db:"system_efficiency" json:"system_efficiency"`
	BottleneckEvents  int     `db:"bottleneck_events" json:"bottleneck_events"`
	CreatedAt         string  `db:"created_at" json:"created_at"`
}

// SaveRun stores a finished run with its backlog history and incident log.
// Returns the new run's ID.
func (db *DB) SaveRun(model *engine.Model) (string, error) {
	cfg := model.Config()
	metrics := model.Metrics()
	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, scenario, mode, seed, steps, total_incidents, resolved_incidents,
		 avg_response_time, system_efficiency, bottleneck_events, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, cfg.Name, string(cfg.Mode), model.Seed(), cfg.Steps,
		metrics.TotalIncidents, metrics.ResolvedIncidents,
		metrics.AvgResponseTime, metrics.SystemEfficiency,
		metrics.BottleneckEvents, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	backlogStmt, err := tx.Preparex(
		"INSERT INTO backlog (run_id, step, pending) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer backlogStmt.Close()

	for i, pending := range metrics.TaskBacklog {
		if _, err := backlogStmt.Exec(id, i+1, pending); err != nil {
			return "", fmt.Errorf("insert backlog step %d: %w", i+1, err)
		}
	}

	incidentStmt, err := tx.Preparex(`INSERT INTO incidents
		(run_id, step, category, location, water_depth, urgency)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer incidentStmt.Close()

	for _, inc := range model.Incidents() {
		_, err := incidentStmt.Exec(id, inc.Step, string(inc.Category),
			inc.Location, inc.WaterDepth, inc.Urgency)
		if err != nil {
			return "", fmt.Errorf("insert incident at step %d: %w", inc.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run saved", "id", id, "scenario", cfg.Name,
		"incidents", len(model.Incidents()), "steps", cfg.Steps)
	return id, nil
}

// GetRun loads one run header.
func (db *DB) GetRun(id string) (RunSummary, error) {
	var run RunSummary
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return RunSummary{}, fmt.Errorf("load run %s: %w", id, err)
	}
	return run, nil
}

// BacklogHistory returns a run's per-step backlog, ordered by step.
func (db *DB) BacklogHistory(runID string) ([]int, error) {
	var pending []int
	err := db.conn.Select(&pending,
		"SELECT pending FROM backlog WHERE run_id = ? ORDER BY step", runID)
	return pending, err
}

// RecentRuns returns the most recent N run headers.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	return runs, err
}
