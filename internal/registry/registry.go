// Package registry tracks validated model versions in a DuckDB database and
// moves them through a staging workflow.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"housegate/internal/gate"
	"housegate/internal/runner"
)

// Stage is the lifecycle stage of a registered model version.
type Stage string

const (
	StageNone       Stage = "none"
	StageStaging    Stage = "staging"
	StageProduction Stage = "production"
	StageArchived   Stage = "archived"
)

// ParseStage validates a stage name.
func ParseStage(value string) (Stage, error) {
	switch Stage(value) {
	case StageNone, StageStaging, StageProduction, StageArchived:
		return Stage(value), nil
	}
	return "", fmt.Errorf("invalid stage %q (expected none|staging|production|archived)", value)
}

// promotable reports whether a stage can be the target of a promotion.
func (s Stage) promotable() bool {
	return s == StageStaging || s == StageProduction
}

// Version is one registered model version.
type Version struct {
	ID           string             `json:"version_id"`
	ModelName    string             `json:"model_name"`
	RunID        string             `json:"run_id"`
	Stage        Stage              `json:"stage"`
	Passed       bool               `json:"passed"`
	Metrics      map[string]float64 `json:"metrics"`
	Tags         []string           `json:"tags"`
	Report       gate.Report        `json:"report"`
	RegisteredAt time.Time          `json:"registered_at"`
}

// Registry wraps a DuckDB connection holding model versions.
type Registry struct {
	db *sql.DB
}

// Open opens (creating if needed) a registry database at path.
func Open(ctx context.Context, path string) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("registry path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping registry: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply registry schema: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close releases the database connection.
func (r *Registry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Register records a gate run as a new model version. A passing run enters
// staging directly; a failing run is recorded at stage none.
func (r *Registry) Register(ctx context.Context, results runner.Results, tags ...string) (Version, error) {
	stage := StageNone
	if results.Report.Passed {
		stage = StageStaging
	}
	if tags == nil {
		tags = []string{}
	}
	version := Version{
		ID:           uuid.NewString(),
		ModelName:    results.ModelName,
		RunID:        results.RunID,
		Stage:        stage,
		Passed:       results.Report.Passed,
		Metrics:      performanceMetrics(results),
		Tags:         tags,
		Report:       results.Report,
		RegisteredAt: results.FinishedAt.UTC(),
	}
	if version.RegisteredAt.IsZero() {
		version.RegisteredAt = time.Now().UTC()
	}

	metrics, err := json.Marshal(version.Metrics)
	if err != nil {
		return Version{}, fmt.Errorf("marshal metrics: %w", err)
	}
	tagPayload, err := json.Marshal(version.Tags)
	if err != nil {
		return Version{}, fmt.Errorf("marshal tags: %w", err)
	}
	reportPayload, err := json.Marshal(version.Report)
	if err != nil {
		return Version{}, fmt.Errorf("marshal report: %w", err)
	}
	if stage == StageStaging {
		if err := r.archiveStage(ctx, version.ModelName, StageStaging); err != nil {
			return Version{}, err
		}
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO model_versions (version_id, model_name, run_id, stage, passed, metrics, tags, report, registered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		version.ID, version.ModelName, version.RunID, string(version.Stage),
		version.Passed, string(metrics), string(tagPayload), string(reportPayload),
		version.RegisteredAt)
	if err != nil {
		return Version{}, fmt.Errorf("insert version: %w", err)
	}
	return version, nil
}

// Promote moves a version into staging or production, archiving whatever
// currently occupies that stage for the same model.
func (r *Registry) Promote(ctx context.Context, versionID string, target Stage) (Version, error) {
	if !target.promotable() {
		return Version{}, fmt.Errorf("cannot promote to stage %q", target)
	}
	version, err := r.Get(ctx, versionID)
	if err != nil {
		return Version{}, err
	}
	if err := r.archiveStage(ctx, version.ModelName, target); err != nil {
		return Version{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE model_versions SET stage = ? WHERE version_id = ?`,
		string(target), versionID); err != nil {
		return Version{}, fmt.Errorf("promote version: %w", err)
	}
	version.Stage = target
	return version, nil
}

// Get loads a single version by ID.
func (r *Registry) Get(ctx context.Context, versionID string) (Version, error) {
	row := r.db.QueryRowContext(ctx,
		versionColumns+` FROM model_versions WHERE version_id = ?`, versionID)
	version, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return Version{}, fmt.Errorf("version %s not found", versionID)
	}
	return version, err
}

// Current returns the version serving a model: production when present,
// otherwise staging.
func (r *Registry) Current(ctx context.Context, modelName string) (Version, error) {
	for _, stage := range []Stage{StageProduction, StageStaging} {
		row := r.db.QueryRowContext(ctx,
			versionColumns+` FROM model_versions
			 WHERE model_name = ? AND stage = ?
			 ORDER BY registered_at DESC LIMIT 1`, modelName, string(stage))
		version, err := scanVersion(row)
		if err == nil {
			return version, nil
		}
		if err != sql.ErrNoRows {
			return Version{}, err
		}
	}
	return Version{}, fmt.Errorf("no production or staging version for %s", modelName)
}

// List returns versions for a model, newest first. An empty model name lists
// everything.
func (r *Registry) List(ctx context.Context, modelName string) ([]Version, error) {
	query := versionColumns + ` FROM model_versions`
	args := []interface{}{}
	if modelName != "" {
		query += ` WHERE model_name = ?`
		args = append(args, modelName)
	}
	query += ` ORDER BY registered_at DESC, version_id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

// ArchiveOld archives all but the newest keep versions of a model. Versions
// in staging or production are never archived by age.
func (r *Registry) ArchiveOld(ctx context.Context, modelName string, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	versions, err := r.List(ctx, modelName)
	if err != nil {
		return 0, err
	}
	archived := 0
	for i, version := range versions {
		if i < keep {
			continue
		}
		if version.Stage.promotable() || version.Stage == StageArchived {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			`UPDATE model_versions SET stage = ? WHERE version_id = ?`,
			string(StageArchived), version.ID); err != nil {
			return archived, fmt.Errorf("archive version %s: %w", version.ID, err)
		}
		archived++
	}
	return archived, nil
}

// archiveStage archives every version of a model currently at a stage.
func (r *Registry) archiveStage(ctx context.Context, modelName string, stage Stage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE model_versions SET stage = ? WHERE model_name = ? AND stage = ?`,
		string(StageArchived), modelName, string(stage))
	if err != nil {
		return fmt.Errorf("archive stage %s: %w", stage, err)
	}
	return nil
}

// performanceMetrics extracts the accuracy metrics recorded for a run.
func performanceMetrics(results runner.Results) map[string]float64 {
	metrics := map[string]float64{}
	if check, ok := results.Report.Check(gate.CheckPerformance); ok {
		for name, value := range check.Metrics {
			metrics[name] = value
		}
	}
	return metrics
}

const versionColumns = `SELECT version_id, model_name, run_id, stage, passed, metrics, tags, report, registered_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row rowScanner) (Version, error) {
	var version Version
	var stage string
	var metrics, tags, report string
	err := row.Scan(&version.ID, &version.ModelName, &version.RunID,
		&stage, &version.Passed, &metrics, &tags, &report, &version.RegisteredAt)
	if err != nil {
		return Version{}, err
	}
	version.Stage = Stage(stage)
	if err := json.Unmarshal([]byte(metrics), &version.Metrics); err != nil {
		return Version{}, fmt.Errorf("parse metrics for %s: %w", version.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &version.Tags); err != nil {
		return Version{}, fmt.Errorf("parse tags for %s: %w", version.ID, err)
	}
	if err := json.Unmarshal([]byte(report), &version.Report); err != nil {
		return Version{}, fmt.Errorf("parse report for %s: %w", version.ID, err)
	}
	version.RegisteredAt = version.RegisteredAt.UTC()
	return version, nil
}
