// Package settingsstore provides SQLite-backed persistence for named
// HandSettings profiles, so a control panel can save and recall tuning
// presets across restarts.
package settingsstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kestrelcam/handtrace/handmodel"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("settingsstore: not found")

// Store is a SQLite database connection for HandSettings profiles.
type Store struct {
	db *sql.DB
}

// New opens dbPath, enables foreign keys, and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("settingsstore: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("settingsstore: enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("settingsstore: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS hand_settings_profiles (
			name TEXT PRIMARY KEY,
			processing_size_width INTEGER NOT NULL,
			processing_size_height INTEGER NOT NULL,
			max_depth REAL NOT NULL,
			min_depth REAL NOT NULL,
			velocity_threshold REAL NOT NULL,
			depth_smoothing_frames INTEGER NOT NULL,
			erosion_size INTEGER NOT NULL,
			segment_band_width REAL NOT NULL,
			max_segment_radius REAL NOT NULL,
			area_min REAL NOT NULL,
			area_max REAL NOT NULL,
			foreground_radius1 REAL NOT NULL,
			foreground_radius2 REAL NOT NULL,
			radius1_min_percent REAL NOT NULL,
			radius2_min_percent REAL NOT NULL,
			max_edge_distance REAL NOT NULL,
			natural_edge_min_pass_rays INTEGER NOT NULL,
			max_flood_fill_visit_budget INTEGER NOT NULL,
			max_hand_count INTEGER NOT NULL,
			lost_timeout INTEGER NOT NULL,
			dead_timeout INTEGER NOT NULL,
			max_failed_tests INTEGER NOT NULL,
			duplicate_world_radius REAL NOT NULL,
			recover_world_radius REAL NOT NULL,
			second_chance_min_tracking_id INTEGER NOT NULL,
			full_size_window_side INTEGER NOT NULL,
			trajectory_history_length INTEGER NOT NULL,
			include_candidate_points INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save persists settings under name, replacing any existing profile of the
// same name.
func (s *Store) Save(name string, settings handmodel.HandSettings) error {
	_, err := s.db.Exec(
		`INSERT INTO hand_settings_profiles (
			name, processing_size_width, processing_size_height, max_depth, min_depth,
			velocity_threshold, depth_smoothing_frames, erosion_size, segment_band_width,
			max_segment_radius, area_min, area_max, foreground_radius1, foreground_radius2,
			radius1_min_percent, radius2_min_percent, max_edge_distance, natural_edge_min_pass_rays,
			max_flood_fill_visit_budget, max_hand_count, lost_timeout, dead_timeout,
			max_failed_tests, duplicate_world_radius, recover_world_radius,
			second_chance_min_tracking_id, full_size_window_side, trajectory_history_length,
			include_candidate_points, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			processing_size_width=excluded.processing_size_width,
			processing_size_height=excluded.processing_size_height,
			max_depth=excluded.max_depth,
			min_depth=excluded.min_depth,
			velocity_threshold=excluded.velocity_threshold,
			depth_smoothing_frames=excluded.depth_smoothing_frames,
			erosion_size=excluded.erosion_size,
			segment_band_width=excluded.segment_band_width,
			max_segment_radius=excluded.max_segment_radius,
			area_min=excluded.area_min,
			area_max=excluded.area_max,
			foreground_radius1=excluded.foreground_radius1,
			foreground_radius2=excluded.foreground_radius2,
			radius1_min_percent=excluded.radius1_min_percent,
			radius2_min_percent=excluded.radius2_min_percent,
			max_edge_distance=excluded.max_edge_distance,
			natural_edge_min_pass_rays=excluded.natural_edge_min_pass_rays,
			max_flood_fill_visit_budget=excluded.max_flood_fill_visit_budget,
			max_hand_count=excluded.max_hand_count,
			lost_timeout=excluded.lost_timeout,
			dead_timeout=excluded.dead_timeout,
			max_failed_tests=excluded.max_failed_tests,
			duplicate_world_radius=excluded.duplicate_world_radius,
			recover_world_radius=excluded.recover_world_radius,
			second_chance_min_tracking_id=excluded.second_chance_min_tracking_id,
			full_size_window_side=excluded.full_size_window_side,
			trajectory_history_length=excluded.trajectory_history_length,
			include_candidate_points=excluded.include_candidate_points,
			updated_at=excluded.updated_at`,
		name, settings.ProcessingSizeWidth, settings.ProcessingSizeHeight, settings.MaxDepth, settings.MinDepth,
		settings.VelocityThreshold, settings.DepthSmoothingFrames, settings.ErosionSize, settings.SegmentBandWidth,
		settings.MaxSegmentRadius, settings.AreaMin, settings.AreaMax, settings.ForegroundRadius1, settings.ForegroundRadius2,
		settings.Radius1MinPercent, settings.Radius2MinPercent, settings.MaxEdgeDistance, settings.NaturalEdgeMinPassRays,
		settings.MaxFloodFillVisitBudget, settings.MaxHandCount, settings.LostTimeout, settings.DeadTimeout,
		settings.MaxFailedTests, settings.DuplicateWorldRadius, settings.RecoverWorldRadius,
		settings.SecondChanceMinTrackingID, settings.FullSizeWindowSide, settings.TrajectoryHistoryLength,
		boolToInt(settings.IncludeCandidatePoints), time.Now(),
	)
	return err
}

// Load retrieves the named profile.
func (s *Store) Load(name string) (handmodel.HandSettings, error) {
	var settings handmodel.HandSettings
	var include int

	err := s.db.QueryRow(
		`SELECT processing_size_width, processing_size_height, max_depth, min_depth,
			velocity_threshold, depth_smoothing_frames, erosion_size, segment_band_width,
			max_segment_radius, area_min, area_max, foreground_radius1, foreground_radius2,
			radius1_min_percent, radius2_min_percent, max_edge_distance, natural_edge_min_pass_rays,
			max_flood_fill_visit_budget, max_hand_count, lost_timeout, dead_timeout,
			max_failed_tests, duplicate_world_radius, recover_world_radius,
			second_chance_min_tracking_id, full_size_window_side, trajectory_history_length,
			include_candidate_points
		 FROM hand_settings_profiles WHERE name = ?`,
		name,
	).Scan(
		&settings.ProcessingSizeWidth, &settings.ProcessingSizeHeight, &settings.MaxDepth, &settings.MinDepth,
		&settings.VelocityThreshold, &settings.DepthSmoothingFrames, &settings.ErosionSize, &settings.SegmentBandWidth,
		&settings.MaxSegmentRadius, &settings.AreaMin, &settings.AreaMax, &settings.ForegroundRadius1, &settings.ForegroundRadius2,
		&settings.Radius1MinPercent, &settings.Radius2MinPercent, &settings.MaxEdgeDistance, &settings.NaturalEdgeMinPassRays,
		&settings.MaxFloodFillVisitBudget, &settings.MaxHandCount, &settings.LostTimeout, &settings.DeadTimeout,
		&settings.MaxFailedTests, &settings.DuplicateWorldRadius, &settings.RecoverWorldRadius,
		&settings.SecondChanceMinTrackingID, &settings.FullSizeWindowSide, &settings.TrajectoryHistoryLength,
		&include,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return handmodel.HandSettings{}, ErrNotFound
		}
		return handmodel.HandSettings{}, err
	}
	settings.IncludeCandidatePoints = include != 0
	return settings, nil
}

// List returns every saved profile name, most recently updated first.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM hand_settings_profiles ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the named profile.
func (s *Store) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM hand_settings_profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
