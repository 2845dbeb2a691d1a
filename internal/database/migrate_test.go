package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// bootstrapSchema is the shape of a database created by the old standalone
// bootstrap: both tables, no user_version.
const bootstrapSchema = `
CREATE TABLE articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL,
	publication_date TEXT NOT NULL,
	body_text TEXT NOT NULL
);
CREATE TABLE analysis_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id INTEGER UNIQUE NOT NULL REFERENCES articles(id),
	company_name TEXT,
	ceo_name TEXT,
	summary TEXT
);`

func rawExec(t *testing.T, dbPath, stmts string) {
	t.Helper()
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer raw.Close()
	if _, err := raw.Exec(stmts); err != nil {
		t.Fatalf("exec raw statements: %v", err)
	}
}

func TestMigrateFreshDatabase(t *testing.T) {
	db := openTestDB(t)

	version, err := schemaVersion(db.conn)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateStampsBootstrapDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bottom_feeder.db")
	rawExec(t, dbPath, bootstrapSchema+`
INSERT INTO articles (url, title, publication_date, body_text)
VALUES ('https://example.com/old', 'Old Article', '1 Jan 2024', 'Body.');`)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	version, err := schemaVersion(db.conn)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d after stamping, got %d", latestVersion(), version)
	}

	// Rows written by the old bootstrap must survive the stamp.
	article, err := db.GetArticleByURL("https://example.com/old")
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if article == nil || article.Title != "Old Article" {
		t.Error("expected pre-existing article to survive migration")
	}
}

func TestMigrateCompletesPartialSchema(t *testing.T) {
	// Only one of the two tables: not a bootstrap database, so migration 1
	// runs and fills in the rest.
	dbPath := filepath.Join(t.TempDir(), "partial.db")
	rawExec(t, dbPath, `CREATE TABLE articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		publication_date TEXT NOT NULL,
		body_text TEXT NOT NULL
	);`)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	aid, err := db.InsertArticle("https://example.com/p", "P", "1 Jan 2025", "Body")
	if err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}
	if _, err := db.InsertAnalysis(aid, "Acme", "", ""); err != nil {
		t.Fatalf("expected analysis_results table to exist: %v", err)
	}
}

func TestMigrateReopenIsNoOp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	db1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	db1.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()

	version, err := schemaVersion(db2.conn)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestSchemaVersionZeroOnEmptyFile(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	version, err := schemaVersion(conn)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on empty file, got %d", version)
	}
}

func TestHasBootstrapSchema(t *testing.T) {
	emptyPath := filepath.Join(t.TempDir(), "empty.db")
	conn, err := sql.Open("sqlite", emptyPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	bootstrap, err := hasBootstrapSchema(conn)
	if err != nil {
		t.Fatalf("hasBootstrapSchema: %v", err)
	}
	if bootstrap {
		t.Error("expected false on empty database")
	}

	fullPath := filepath.Join(t.TempDir(), "full.db")
	rawExec(t, fullPath, bootstrapSchema)
	connFull, err := sql.Open("sqlite", fullPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer connFull.Close()

	bootstrap, err = hasBootstrapSchema(connFull)
	if err != nil {
		t.Fatalf("hasBootstrapSchema: %v", err)
	}
	if !bootstrap {
		t.Error("expected true when both tables exist")
	}
}
