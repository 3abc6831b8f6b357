package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/indieinfra/mediaprep/config"
	storageutil "github.com/indieinfra/mediaprep/storage/util"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

const defaultTablePrefix = "mediaprep"

type SQLStore struct {
	db          *sql.DB
	table       string
	placeholder placeholderStyle
}

func NewSQLStore(cfg *config.SQLManifestStrategy) (*SQLStore, error) {
	store, err := newSQLStoreWithDB(cfg, nil)
	if err != nil {
		return nil, err
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := dsnFor(driverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	store.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init manifest schema: %w", err)
	}

	return store, nil
}

func newSQLStoreWithDB(cfg *config.SQLManifestStrategy, db *sql.DB) (*SQLStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("manifest sql config is nil")
	}

	prefix := defaultTablePrefix
	if cfg.TablePrefix != nil {
		prefix = *cfg.TablePrefix
	}

	placeholder, err := detectPlaceholderStyle(cfg.Driver)
	if err != nil {
		return nil, err
	}

	return &SQLStore{
		db:          db,
		table:       storageutil.DeriveTableName(prefix, "uploads"),
		placeholder: placeholder,
	}, nil
}

func detectPlaceholderStyle(driver string) (placeholderStyle, error) {
	driverName, err := resolveSQLDriverName(driver)
	if err != nil {
		return placeholderQuestion, err
	}

	if driverName == "pgx" {
		return placeholderDollar, nil
	}

	return placeholderQuestion, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// dsnFor forces parseTime on mysql DSNs so created_at scans into time.Time.
func dsnFor(driverName, dsn string) (string, error) {
	if driverName != "mysql" {
		return dsn, nil
	}

	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	mc.ParseTime = true

	return mc.FormatDSN(), nil
}

func (ms *SQLStore) initSchema(ctx context.Context) error {
	_, err := ms.db.ExecContext(ctx, ms.schemaQuery())
	return err
}

func (ms *SQLStore) schemaQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(36) PRIMARY KEY,
url TEXT NOT NULL,
filename VARCHAR(255) NOT NULL,
mime_type VARCHAR(64) NOT NULL,
media_category VARCHAR(32) NOT NULL,
size BIGINT NOT NULL,
chunks INTEGER NOT NULL,
created_at TIMESTAMP NOT NULL
)`, ms.table)
}

func (ms *SQLStore) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("manifest entry id is required")
	}

	_, err := ms.db.ExecContext(ctx, ms.insertQuery(),
		e.ID, e.URL, e.Filename, e.MimeType, e.Category, e.Size, e.Chunks, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record manifest entry %s: %w", e.ID, err)
	}

	return nil
}

func (ms *SQLStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := ms.db.QueryRowContext(ctx, ms.selectQuery(), id)

	var e Entry
	if err := row.Scan(&e.ID, &e.URL, &e.Filename, &e.MimeType, &e.Category, &e.Size, &e.Chunks, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &e, nil
}

// Close releases the underlying database handle.
func (ms *SQLStore) Close() error {
	if ms.db == nil {
		return nil
	}
	return ms.db.Close()
}

func (ms *SQLStore) insertQuery() string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, url, filename, mime_type, media_category, size, chunks, created_at) VALUES (%s)",
		ms.table,
		ms.placeholders(8),
	)
}

func (ms *SQLStore) selectQuery() string {
	return fmt.Sprintf(
		"SELECT id, url, filename, mime_type, media_category, size, chunks, created_at FROM %s WHERE id = %s",
		ms.table,
		ms.placeholderFor(1),
	)
}

func (ms *SQLStore) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = ms.placeholderFor(i + 1)
	}
	return strings.Join(parts, ", ")
}

func (ms *SQLStore) placeholderFor(idx int) string {
	if ms.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", idx)
	}

	return "?"
}
