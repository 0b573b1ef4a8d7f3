package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS fluids (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		is_gas INTEGER NOT NULL DEFAULT 0,
		density DOUBLE NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS ranged_covers (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		cover_type INTEGER NOT NULL DEFAULT 0,
		cover_extent INTEGER NOT NULL DEFAULT 0,
		max_simultaneous INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS foragable_profiles (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS foragable_profile_yields (
		profile_id BIGINT NOT NULL,
		yield_type VARCHAR(191) NOT NULL,
		maximum DOUBLE NOT NULL DEFAULT 0,
		hourly_regain DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (profile_id, yield_type)
	)`,
	`CREATE TABLE IF NOT EXISTS weather_controllers (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		precipitation INTEGER NOT NULL DEFAULT 0,
		wind INTEGER NOT NULL DEFAULT 0,
		temperature DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS terrains (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		movement_rate DOUBLE NOT NULL DEFAULT 1,
		stamina_cost DOUBLE NOT NULL DEFAULT 0,
		hide_difficulty INTEGER NOT NULL DEFAULT 0,
		spot_difficulty INTEGER NOT NULL DEFAULT 0,
		infection_type INTEGER NOT NULL DEFAULT 0,
		infection_virulence INTEGER NOT NULL DEFAULT 0,
		infection_multiplier DOUBLE NOT NULL DEFAULT 1,
		outdoors_type INTEGER NOT NULL DEFAULT 0,
		weather_controller_id BIGINT NOT NULL DEFAULT 0,
		atmosphere_id BIGINT NOT NULL DEFAULT 0,
		foragable_profile_id BIGINT NOT NULL DEFAULT 0,
		terrain_model VARCHAR(191) NOT NULL DEFAULT 'outdoors',
		map_colour VARCHAR(64) NOT NULL DEFAULT '',
		editor_colour VARCHAR(64) NOT NULL DEFAULT '',
		default_terrain INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS terrain_covers (
		terrain_id BIGINT NOT NULL,
		cover_id BIGINT NOT NULL,
		PRIMARY KEY (terrain_id, cover_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shards (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		minimum_terrestrial_lux DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS clocks (
		id BIGINT PRIMARY KEY,
		shard_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		days_per_year INTEGER NOT NULL DEFAULT 365,
		clock_year INTEGER NOT NULL DEFAULT 0,
		clock_day INTEGER NOT NULL DEFAULT 0,
		clock_minute INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS calendars (
		id BIGINT PRIMARY KEY,
		shard_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		days_per_year INTEGER NOT NULL DEFAULT 365
	)`,
	`CREATE TABLE IF NOT EXISTS celestials (
		id BIGINT PRIMARY KEY,
		shard_id BIGINT NOT NULL,
		clock_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		peak_illuminance DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS zones (
		id BIGINT PRIMARY KEY,
		shard_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		latitude DOUBLE NOT NULL DEFAULT 0,
		longitude DOUBLE NOT NULL DEFAULT 0,
		elevation DOUBLE NOT NULL DEFAULT 0,
		ambient_light_pollution DOUBLE NOT NULL DEFAULT 0,
		weather_controller_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS zone_timezones (
		zone_id BIGINT NOT NULL,
		clock_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		offset_minutes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (zone_id, clock_id)
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id BIGINT PRIMARY KEY,
		zone_id BIGINT NOT NULL,
		x INTEGER NOT NULL DEFAULT 0,
		y INTEGER NOT NULL DEFAULT 0,
		z INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cells (
		id BIGINT PRIMARY KEY,
		room_id BIGINT NOT NULL,
		current_overlay_id BIGINT NOT NULL DEFAULT 0,
		foragable_profile_id BIGINT NOT NULL DEFAULT 0,
		is_temporary INTEGER NOT NULL DEFAULT 0,
		effects_xml TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS cell_tags (
		cell_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL,
		PRIMARY KEY (cell_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cell_yields (
		cell_id BIGINT NOT NULL,
		yield_type VARCHAR(191) NOT NULL,
		amount DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (cell_id, yield_type)
	)`,
	`CREATE TABLE IF NOT EXISTS cell_magic_resources (
		cell_id BIGINT NOT NULL,
		resource_id BIGINT NOT NULL,
		amount DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (cell_id, resource_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cell_hooks (
		cell_id BIGINT NOT NULL,
		hook_id BIGINT NOT NULL,
		PRIMARY KEY (cell_id, hook_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cell_contents (
		cell_id BIGINT NOT NULL,
		item_id BIGINT NOT NULL,
		layer INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (cell_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS overlay_packages (
		id BIGINT NOT NULL,
		revision INTEGER NOT NULL,
		name VARCHAR(191) NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (id, revision)
	)`,
	`CREATE TABLE IF NOT EXISTS cell_overlays (
		id BIGINT PRIMARY KEY,
		cell_id BIGINT NOT NULL,
		package_id BIGINT NOT NULL,
		package_revision INTEGER NOT NULL,
		name VARCHAR(191) NOT NULL,
		description TEXT,
		terrain_id BIGINT NOT NULL,
		outdoors_type INTEGER NOT NULL DEFAULT 0,
		hearing_profile_id BIGINT NOT NULL DEFAULT 0,
		ambient_light_factor DOUBLE NOT NULL DEFAULT 1,
		added_light DOUBLE NOT NULL DEFAULT 0,
		atmosphere_id BIGINT NOT NULL DEFAULT 0,
		safe_quit INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cell_overlay_exits (
		overlay_id BIGINT NOT NULL,
		exit_id BIGINT NOT NULL,
		PRIMARY KEY (overlay_id, exit_id)
	)`,
	`CREATE TABLE IF NOT EXISTS exits (
		id BIGINT PRIMARY KEY,
		cell1_id BIGINT NOT NULL,
		cell2_id BIGINT NOT NULL,
		direction1 INTEGER NOT NULL,
		direction2 INTEGER NOT NULL,
		has_door INTEGER NOT NULL DEFAULT 0,
		door_open INTEGER NOT NULL DEFAULT 1,
		accepts_fall INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS areas (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		weather_controller_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS area_rooms (
		area_id BIGINT NOT NULL,
		room_id BIGINT NOT NULL,
		PRIMARY KEY (area_id, room_id)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		weight DOUBLE NOT NULL DEFAULT 0,
		density DOUBLE NOT NULL DEFAULT 1,
		light DOUBLE NOT NULL DEFAULT 0,
		temperature DOUBLE NOT NULL DEFAULT 0,
		anchored INTEGER NOT NULL DEFAULT 0
	)`,
}

// DB is the relational world store. Writes go through Tx.
type DB struct {
	db     *sql.DB
	driver string

	mu      sync.Mutex
	nextIDs map[string]int64
}

// Open connects to the database and creates any missing tables.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn")
	}

	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, err
			}
		}
	case DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		if err := initPragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "database opened", "driver", driver)
	return &DB{
		db:      db,
		driver:  driver,
		nextIDs: make(map[string]int64),
	}, nil
}

func initPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (d *DB) Driver() string {
	return d.driver
}

func (d *DB) Close() error {
	return d.db.Close()
}

// NextID allocates an id for a table, seeded from the largest id on first use.
func (d *DB) NextID(ctx context.Context, table string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, ok := d.nextIDs[table]
	if !ok {
		var maxID sql.NullInt64
		// table names come from the fixed schema list
		err := d.db.QueryRowContext(ctx, "SELECT MAX(id) FROM "+table).Scan(&maxID)
		if err != nil {
			return 0, fmt.Errorf("seeding %s ids: %w", table, err)
		}
		next = maxID.Int64
	}
	next++
	d.nextIDs[table] = next
	return next, nil
}

// Tx runs fn in a transaction, committing if it returns nil.
func (d *DB) Tx(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&Tx{ctx: ctx, tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			slog.WarnContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Tx is a unit of work against the world schema.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *Tx) exec(query string, args ...any) error {
	if _, err := t.tx.ExecContext(t.ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", firstWords(query), err)
	}
	return nil
}

func firstWords(q string) string {
	if len(q) > 40 {
		return q[:40]
	}
	return q
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
