package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contentpipeline/internal/model"
)

// RunRepository implements repository.RunRepository for SQLite.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, started_at, finished_at, forced, projects, dropped, encoded, cached, failed`

// Start records the beginning of a run. An empty ID is replaced by a new UUID.
func (r *RunRepository) Start(run *model.Run) error {
	r.db.Lock()
	defer r.db.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	_, err := r.db.Conn().Exec(`
		INSERT INTO runs (id, started_at, forced)
		VALUES (?, ?, ?)
	`, run.ID, run.StartedAt, run.Forced)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish stores the final counters of a run.
func (r *RunRepository) Finish(run *model.Run) error {
	r.db.Lock()
	defer r.db.Unlock()

	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}

	result, err := r.db.Conn().Exec(`
		UPDATE runs
		SET finished_at = ?, projects = ?, dropped = ?, encoded = ?, cached = ?, failed = ?
		WHERE id = ?
	`, finished, run.Projects, run.Dropped, run.Encoded, run.Cached, run.Failed, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	run.FinishedAt = &finished
	return nil
}

// GetByID retrieves a run by its ID, or nil when it does not exist.
func (r *RunRepository) GetByID(id string) (*model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// Latest retrieves the most recently started run, or nil when there is none.
func (r *RunRepository) Latest() (*model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (r *RunRepository) List(limit int) ([]model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (*model.Run, error) {
	var run model.Run
	var finished sql.NullTime
	if err := s.Scan(&run.ID, &run.StartedAt, &finished, &run.Forced,
		&run.Projects, &run.Dropped, &run.Encoded, &run.Cached, &run.Failed); err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}
