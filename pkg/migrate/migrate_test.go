package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/angelmondragon/storefront-backend/pkg/migrate/migrations"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
	if err := ValidateFS(migrations.FS); err != nil {
		t.Fatalf("validate embedded migrations: %v", err)
	}
}

func TestProductsMigrationDefinesTable(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one products migration, found %d", len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"price            NUMERIC(12,2)",
		"CREATE INDEX IF NOT EXISTS idx_products_category",
		"DROP TABLE IF EXISTS products",
	} {
		if !strings.Contains(string(data), sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	if err := Run(ctx, db, "sqlite3", Embedded(), "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	version, err := Version(ctx, db, "sqlite3")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 20240601120000 {
		t.Fatalf("unexpected schema version %d", version)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO products (id, name, price) VALUES ('1', 'Mug', 12.5)`); err != nil {
		t.Fatalf("insert after migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO products (id, name, price) VALUES ('2', 'Broken', -1)`); err == nil {
		t.Fatalf("expected price check constraint to reject negatives")
	}
	if err := Run(ctx, db, "sqlite3", Embedded(), "down"); err != nil {
		t.Fatalf("goose down: %v", err)
	}
}

func TestMigrateToVersionFromDisk(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	if err := MigrateToVersion(ctx, db, "sqlite3", Dir("migrations"), "20240601120000"); err != nil {
		t.Fatalf("migrate to version: %v", err)
	}
	if _, err := db.ExecContext(ctx, `SELECT count(*) FROM products`); err != nil {
		t.Fatalf("expected products table: %v", err)
	}
	if err := MigrateToVersion(ctx, db, "sqlite3", Dir("migrations"), "latest"); err == nil {
		t.Fatalf("expected non-numeric version to fail")
	}
}

func TestRunRequiresArguments(t *testing.T) {
	if err := Run(context.Background(), nil, "sqlite3", Embedded(), "up"); err == nil {
		t.Fatalf("expected error without db")
	}
	if err := Run(context.Background(), openSQLite(t), "sqlite3", Source{}, "up"); err == nil {
		t.Fatalf("expected error without dir")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected empty dir to fail")
	}
	if err := os.WriteFile(filepath.Join(dir, "add products.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}

func TestValidateDirRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose Down\n")
	for _, f := range []string{"20240101000000_add_sku.sql", "20240102000000_add_sku.sql"} {
		if err := os.WriteFile(filepath.Join(dir, f), body, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "duplicate migration name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	path, err := CreateSQLMigration(dir, "Add Product Badges!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20240701093000_add_product_badges.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "add product badges", now.Add(time.Hour)); err == nil {
		t.Fatalf("expected duplicate name to be refused")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatalf("expected empty sanitized name to be refused")
	}
}
