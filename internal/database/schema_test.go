package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_sweets_table.sql",
		"00003_create_purchases_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	directives := []string{
		"-- +goose Up",
		"-- +goose Down",
		"-- +goose StatementBegin",
		"-- +goose StatementEnd",
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content := readMigration(t, file.Name())
		for _, directive := range directives {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":     "00001_create_users_table.sql",
		"sweets":    "00002_create_sweets_table.sql",
		"purchases": "00003_create_purchases_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		content := readMigration(t, migrationFile)

		if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestSweetsTableGuardsStockAndPrice(t *testing.T) {
	content := readMigration(t, "00002_create_sweets_table.sql")

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"name VARCHAR",
		"category VARCHAR",
		"price DECIMAL(10, 2)",
		"quantity INTEGER",
		"description TEXT",
		"created_at TIMESTAMPTZ",
		"updated_at TIMESTAMPTZ",
		"CHECK (quantity >= 0)",
		"CHECK (price >= 0)",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(content, column) {
			t.Errorf("Sweets table missing definition: %s", column)
		}
	}
}

func TestUsersTableHasUniqueEmail(t *testing.T) {
	content := readMigration(t, "00001_create_users_table.sql")

	if !strings.Contains(content, "users_email_key UNIQUE (email)") {
		t.Error("Users table missing unique constraint on email")
	}
	if !strings.Contains(content, "CHECK (role IN ('user', 'admin'))") {
		t.Error("Users table missing role constraint")
	}
}

func TestPurchasesTableKeepsWeakSweetReference(t *testing.T) {
	content := readMigration(t, "00003_create_purchases_table.sql")

	if !strings.Contains(content, "FOREIGN KEY (user_id)") {
		t.Error("Purchases table missing foreign key to users")
	}
	if strings.Contains(content, "FOREIGN KEY (sweet_id)") {
		t.Error("Purchases must not cascade with sweet deletion")
	}
	if !strings.Contains(content, "total_amount DECIMAL") {
		t.Error("Purchases table must store total_amount as DECIMAL")
	}
}
