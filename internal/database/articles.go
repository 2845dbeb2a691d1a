package database

import (
	"database/sql"
	"fmt"
)

// InsertArticle inserts an article and returns its ID. Inserting a URL that
// already exists violates the UNIQUE constraint and returns an error;
// callers dedupe with GetArticleByURL first.
func (db *DB) InsertArticle(url, title, publicationDate, bodyText string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO articles (url, title, publication_date, body_text)
		VALUES (?, ?, ?, ?)`,
		url, title, publicationDate, bodyText,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article: %w", err)
	}
	return result.LastInsertId()
}

// GetArticleByURL returns the article with the given URL, or nil if absent.
func (db *DB) GetArticleByURL(url string) (*Article, error) {
	row := db.conn.QueryRow(
		`SELECT id, url, title, publication_date, body_text, fetched_at
		FROM articles WHERE url = ?`, url,
	)
	return scanArticle(row)
}

// GetArticleByID returns a single article by ID, or nil if absent.
func (db *DB) GetArticleByID(articleID int64) (*Article, error) {
	row := db.conn.QueryRow(
		`SELECT id, url, title, publication_date, body_text, fetched_at
		FROM articles WHERE id = ?`, articleID,
	)
	return scanArticle(row)
}

// GetAllArticles returns every stored article, newest first.
func (db *DB) GetAllArticles() ([]Article, error) {
	rows, err := db.conn.Query(
		`SELECT id, url, title, publication_date, body_text, fetched_at
		FROM articles ORDER BY fetched_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.PublicationDate,
			&a.BodyText, &a.FetchedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM articles").Scan(&s.TotalArticles); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM analysis_results").Scan(&s.AnalyzedArticles); err != nil {
		return nil, err
	}
	s.PendingAnalysis = s.TotalArticles - s.AnalyzedArticles
	return s, nil
}

func scanArticle(row *sql.Row) (*Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.PublicationDate, &a.BodyText, &a.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
