package sqlite

import (
	"database/sql"
	"fmt"

	"contentpipeline/internal/dto"
	"contentpipeline/internal/model"
)

// AssetRepository implements repository.AssetRepository for SQLite.
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new SQLite asset repository.
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetInsert = `
	INSERT INTO assets (run_id, project, category, source_path, source_mtime, status, error, width, height, taken_at, camera_model)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const assetColumns = `id, run_id, project, category, source_path, source_mtime, status, error, width, height, taken_at, camera_model`

func assetArgs(a *model.Asset) []interface{} {
	var takenAt interface{}
	if a.TakenAt != nil {
		takenAt = a.TakenAt.UTC()
	}
	return []interface{}{
		a.RunID, a.Project, string(a.Category), a.SourcePath, a.SourceMTime.UTC(),
		string(a.Status), a.Error, a.Width, a.Height, takenAt, a.CameraModel,
	}
}

// Insert adds a single asset record.
func (r *AssetRepository) Insert(asset *model.Asset) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(assetInsert, assetArgs(asset)...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	asset.ID = id
	return id, nil
}

// InsertBatch adds multiple assets in a single transaction.
func (r *AssetRepository) InsertBatch(assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(assetInsert)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range assets {
		if _, err := stmt.Exec(assetArgs(&assets[i])...); err != nil {
			return fmt.Errorf("failed to insert asset %s: %w", assets[i].SourcePath, err)
		}
	}

	return tx.Commit()
}

// GetByRun retrieves assets matching the filter, in insertion order.
func (r *AssetRepository) GetByRun(filter *dto.AssetFilter) ([]model.Asset, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	args := []interface{}{}

	if filter.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filter.RunID)
	}

	if filter.Project != "" {
		query += " AND project = ?"
		args = append(args, filter.Project)
	}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// GetFailures returns the failed assets of a run.
func (r *AssetRepository) GetFailures(runID string) ([]model.Asset, error) {
	return r.GetByRun(&dto.AssetFilter{RunID: runID, Status: model.AssetFailed})
}

// CountByStatus counts the assets of a run per status.
func (r *AssetRepository) CountByStatus(runID string) (map[model.AssetStatus]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT status, COUNT(*) FROM assets WHERE run_id = ? GROUP BY status
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.AssetStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[model.AssetStatus(status)] = count
	}
	return counts, rows.Err()
}

func scanAsset(s rowScanner) (model.Asset, error) {
	var a model.Asset
	var category, status string
	var mtime, takenAt sql.NullTime
	if err := s.Scan(&a.ID, &a.RunID, &a.Project, &category, &a.SourcePath, &mtime,
		&status, &a.Error, &a.Width, &a.Height, &takenAt, &a.CameraModel); err != nil {
		return a, err
	}
	a.Category = model.Category(category)
	a.Status = model.AssetStatus(status)
	if mtime.Valid {
		a.SourceMTime = mtime.Time
	}
	if takenAt.Valid {
		a.TakenAt = &takenAt.Time
	}
	return a, nil
}
