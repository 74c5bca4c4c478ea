package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"contentpipeline/internal/dto"
	"contentpipeline/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_MigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	for i := 0; i < 2; i++ {
		db, err := New(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestRunRepository_Lifecycle(t *testing.T) {
	runs := NewRunRepository(newTestDB(t))

	run := &model.Run{Forced: true}
	if err := runs.Start(run); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(run.ID) != 36 {
		t.Errorf("expected a UUID run id, got %q", run.ID)
	}

	run.Projects, run.Dropped, run.Encoded, run.Cached, run.Failed = 3, 1, 10, 4, 2
	if err := runs.Finish(run); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	stored, err := runs.GetByID(run.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByID = %v, %v", stored, err)
	}
	if !stored.Forced || stored.Projects != 3 || stored.Encoded != 10 || stored.Failed != 2 {
		t.Errorf("unexpected stored run %+v", stored)
	}
	if stored.FinishedAt == nil {
		t.Error("FinishedAt should be set")
	}
}

func TestRunRepository_FinishUnknownRun(t *testing.T) {
	runs := NewRunRepository(newTestDB(t))
	if err := runs.Finish(&model.Run{ID: "missing"}); err == nil {
		t.Error("expected an error finishing an unknown run")
	}
}

func TestRunRepository_GetByIDMissing(t *testing.T) {
	runs := NewRunRepository(newTestDB(t))
	run, err := runs.GetByID("nope")
	if err != nil || run != nil {
		t.Errorf("GetByID(nope) = %v, %v; expected nil, nil", run, err)
	}
	latest, err := runs.Latest()
	if err != nil || latest != nil {
		t.Errorf("Latest on empty catalog = %v, %v", latest, err)
	}
}

func TestRunRepository_LatestAndList(t *testing.T) {
	runs := NewRunRepository(newTestDB(t))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		run := &model.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := runs.Start(run); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := runs.Latest()
	if err != nil || latest == nil || latest.ID != "third" {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}

	list, err := runs.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "third" || list[1].ID != "second" {
		t.Errorf("List(2) = %+v", list)
	}

	all, _ := runs.List(0)
	if len(all) != 3 {
		t.Errorf("List(0) returned %d runs, expected 3", len(all))
	}
}

func TestAssetRepository_InsertAndQuery(t *testing.T) {
	db := newTestDB(t)
	runs := NewRunRepository(db)
	assets := NewAssetRepository(db)

	run := &model.Run{}
	if err := runs.Start(run); err != nil {
		t.Fatal(err)
	}

	taken := time.Date(2023, 5, 4, 10, 30, 0, 0, time.UTC)
	batch := []model.Asset{
		{RunID: run.ID, Project: "kiawah", Category: model.CategoryResidential, SourcePath: "/c/01.jpg", SourceMTime: taken, Status: model.AssetEncoded, Width: 1440, Height: 1080, TakenAt: &taken, CameraModel: "X100V"},
		{RunID: run.ID, Project: "kiawah", Category: model.CategoryResidential, SourcePath: "/c/02.jpg", Status: model.AssetFailed, Error: "corrupt"},
		{RunID: run.ID, Project: "concept", Category: model.CategoryUnbuilt, SourcePath: "/c/a.png", Status: model.AssetCached, Width: 800, Height: 600},
	}
	if err := assets.InsertBatch(batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	single := &model.Asset{RunID: run.ID, Project: "concept", Category: model.CategoryUnbuilt, SourcePath: "/c/b.png", Status: model.AssetCached}
	id, err := assets.Insert(single)
	if err != nil || id == 0 || single.ID != id {
		t.Fatalf("Insert = %d, %v", id, err)
	}

	all, err := assets.GetByRun(&dto.AssetFilter{RunID: run.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 assets, got %d", len(all))
	}
	first := all[0]
	if first.TakenAt == nil || !first.TakenAt.Equal(taken) || first.CameraModel != "X100V" || first.Width != 1440 {
		t.Errorf("unexpected first asset %+v", first)
	}

	kiawah, _ := assets.GetByRun(&dto.AssetFilter{RunID: run.ID, Project: "kiawah", Limit: 1})
	if len(kiawah) != 1 || kiawah[0].SourcePath != "/c/01.jpg" {
		t.Errorf("filtered assets = %+v", kiawah)
	}

	failures, err := assets.GetFailures(run.ID)
	if err != nil || len(failures) != 1 || failures[0].Error != "corrupt" {
		t.Errorf("GetFailures = %+v, %v", failures, err)
	}

	counts, err := assets.CountByStatus(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[model.AssetEncoded] != 1 || counts[model.AssetCached] != 2 || counts[model.AssetFailed] != 1 {
		t.Errorf("CountByStatus = %v", counts)
	}
}

func TestAssetRepository_UnknownRunIsRejected(t *testing.T) {
	assets := NewAssetRepository(newTestDB(t))
	err := assets.InsertBatch([]model.Asset{{RunID: "ghost", Project: "p", Category: model.CategoryResidential, SourcePath: "x", Status: model.AssetEncoded}})
	if err == nil {
		t.Error("expected a foreign key error for an unknown run")
	}
}
