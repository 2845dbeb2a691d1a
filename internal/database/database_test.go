package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertArticle(t *testing.T) {
	db := openTestDB(t)
	id, err := db.InsertArticle("https://example.com/test", "Test Article", "12 Jan 2025", "Body text here.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero article ID")
	}
}

func TestInsertDuplicateArticleRejected(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertArticle("https://example.com/dup", "First", "1 Jan 2025", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := db.InsertArticle("https://example.com/dup", "Duplicate", "2 Jan 2025", "B"); err == nil {
		t.Error("expected uniqueness violation for duplicate URL")
	}
}

func TestGetArticleByURL(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertArticle("https://example.com/one", "One", "1 Jan 2025", "Body.")

	a, err := db.GetArticleByURL("https://example.com/one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("expected article")
	}
	if a.ID != id {
		t.Errorf("expected ID %d, got %d", id, a.ID)
	}
	if a.Title != "One" {
		t.Errorf("expected title 'One', got %q", a.Title)
	}
	if a.PublicationDate != "1 Jan 2025" {
		t.Errorf("expected publication date '1 Jan 2025', got %q", a.PublicationDate)
	}

	missing, err := db.GetArticleByURL("https://example.com/absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for absent URL")
	}
}

func TestGetAllArticles(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle("https://a.com", "A", "1 Jan 2025", "A body")
	db.InsertArticle("https://b.com", "B", "2 Jan 2025", "B body")

	articles, err := db.GetAllArticles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestAnalysisLifecycle(t *testing.T) {
	db := openTestDB(t)
	aid, _ := db.InsertArticle("https://a.com", "A", "1 Jan 2025", "Acme announced earnings.")

	before, err := db.GetAnalysisForArticle(aid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != nil {
		t.Fatal("expected no analysis before insert")
	}

	id, err := db.InsertAnalysis(aid, "Acme", "Jane Doe", "Acme reported strong earnings.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero analysis ID")
	}

	analysis, err := db.GetAnalysisForArticle(aid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis == nil {
		t.Fatal("expected analysis")
	}
	if analysis.CompanyName == nil || *analysis.CompanyName != "Acme" {
		t.Error("expected company name 'Acme'")
	}
	if analysis.CEOName == nil || *analysis.CEOName != "Jane Doe" {
		t.Error("expected CEO name 'Jane Doe'")
	}
}

func TestDuplicateAnalysisRejected(t *testing.T) {
	db := openTestDB(t)
	aid, _ := db.InsertArticle("https://a.com", "A", "1 Jan 2025", "Body")
	if _, err := db.InsertAnalysis(aid, "Acme", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := db.InsertAnalysis(aid, "Other", "", ""); err == nil {
		t.Error("expected uniqueness violation for second analysis")
	}
}

func TestAnalysisRequiresArticle(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertAnalysis(999, "Ghost Corp", "", ""); err == nil {
		t.Error("expected foreign key violation for missing article")
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalArticles != 0 {
		t.Errorf("expected 0 articles, got %d", stats.TotalArticles)
	}

	aid, _ := db.InsertArticle("https://a.com", "A", "1 Jan 2025", "Body")
	db.InsertArticle("https://b.com", "B", "2 Jan 2025", "Body")
	db.InsertAnalysis(aid, "Acme", "", "")

	stats, _ = db.GetStats()
	if stats.TotalArticles != 2 {
		t.Errorf("expected 2 articles, got %d", stats.TotalArticles)
	}
	if stats.AnalyzedArticles != 1 {
		t.Errorf("expected 1 analyzed, got %d", stats.AnalyzedArticles)
	}
	if stats.PendingAnalysis != 1 {
		t.Errorf("expected 1 pending, got %d", stats.PendingAnalysis)
	}
}
