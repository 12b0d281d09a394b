package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the plan archive schema. An archive that already
// has the schema is left untouched, so reopening a database is safe.
func (db *DB) RunMigrations() error {
	var existing int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if existing > 0 {
		return nil
	}

	migration := `
-- Planning runs
CREATE TABLE runs (
    run_id TEXT PRIMARY KEY,
    field TEXT NOT NULL,
    created_at TEXT NOT NULL,
    horizon_days INTEGER NOT NULL,
    nx INTEGER NOT NULL,
    ny INTEGER NOT NULL,
    nz INTEGER NOT NULL,
    cell_dx_m REAL NOT NULL,
    cell_dy_m REAL NOT NULL,
    cell_dz_m REAL NOT NULL,
    top_depth_m REAL NOT NULL
);
CREATE INDEX idx_runs_field ON runs(field);
CREATE INDEX idx_runs_created ON runs(created_at);

-- Designed wells, one row per well in plan order
CREATE TABLE wells (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('producer', 'injector')),
    trajectory TEXT NOT NULL CHECK(trajectory IN ('vertical', 'horizontal', 'multilateral')),
    i INTEGER NOT NULL,
    j INTEGER NOT NULL,
    surface_x_m REAL NOT NULL,
    surface_y_m REAL NOT NULL,
    radius_m REAL NOT NULL,
    skin REAL NOT NULL,
    layers TEXT NOT NULL,
    laterals TEXT NOT NULL,
    tvd_m REAL NOT NULL,
    md_m REAL NOT NULL,
    PRIMARY KEY (run_id, seq),
    UNIQUE (run_id, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Completion intervals in design order
CREATE TABLE completions (
    run_id TEXT NOT NULL,
    well TEXT NOT NULL,
    seq INTEGER NOT NULL,
    i INTEGER NOT NULL,
    j INTEGER NOT NULL,
    k INTEGER NOT NULL,
    zone TEXT NOT NULL,
    direction TEXT NOT NULL CHECK(direction IN ('x', 'y', 'z')),
    top_depth_m REAL NOT NULL,
    bottom_depth_m REAL NOT NULL,
    net_pay_m REAL NOT NULL,
    segment_m REAL NOT NULL,
    perm_x_md REAL NOT NULL,
    perm_y_md REAL NOT NULL,
    perm_z_md REAL NOT NULL,
    wi_value REAL NOT NULL,
    wi_equiv_radius_m REAL NOT NULL,
    wi_geom_factor REAL NOT NULL,
    PRIMARY KEY (run_id, well, seq),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Per-well control policies
CREATE TABLE policies (
    run_id TEXT NOT NULL,
    well TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('producer', 'injector')),
    mode TEXT NOT NULL CHECK(mode IN ('RATE', 'BHP')),
    target_rate_sm3d REAL NOT NULL,
    bhp_limit_psi REAL NOT NULL,
    rate_to_bhp_psi REAL NOT NULL,
    bhp_to_rate_psi REAL NOT NULL,
    max_water_cut REAL NOT NULL,
    max_gor REAL NOT NULL,
    PRIMARY KEY (run_id, well),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Development phases
CREATE TABLE phases (
    run_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    name TEXT NOT NULL,
    start_day INTEGER NOT NULL,
    end_day INTEGER NOT NULL,
    add_wells TEXT NOT NULL,
    active TEXT NOT NULL,
    oil_target_sm3d REAL NOT NULL,
    injection_target_sm3d REAL NOT NULL,
    vrr_target REAL NOT NULL,
    PRIMARY KEY (run_id, idx),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Drilling program in scheduling order
CREATE TABLE activations (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    well TEXT NOT NULL,
    phase INTEGER NOT NULL,
    drill_start INTEGER NOT NULL,
    startup INTEGER NOT NULL,
    PRIMARY KEY (run_id, seq),
    UNIQUE (run_id, well),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Timeline milestones
CREATE TABLE milestones (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    day INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('phase-start', 'phase-end', 'drill-start', 'startup', 'checkpoint')),
    label TEXT NOT NULL,
    well TEXT NOT NULL,
    PRIMARY KEY (run_id, seq),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Assembled simulation steps; controls hold the frozen policy snapshot
CREATE TABLE steps (
    run_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    phase INTEGER NOT NULL,
    start_day INTEGER NOT NULL,
    days INTEGER NOT NULL,
    oil_target_sm3d REAL NOT NULL,
    injection_target_sm3d REAL NOT NULL,
    vrr_target REAL NOT NULL,
    controls TEXT NOT NULL,
    PRIMARY KEY (run_id, idx),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`

	_, err = db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
