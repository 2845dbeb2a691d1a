package database

import (
	"database/sql"
	"fmt"
)

// InsertAnalysis attaches an analysis result to an article. The UNIQUE
// constraint on article_id rejects a second analysis for the same article.
func (db *DB) InsertAnalysis(articleID int64, companyName, ceoName, summary string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO analysis_results (article_id, company_name, ceo_name, summary)
		VALUES (?, ?, ?, ?)`,
		articleID, companyName, ceoName, summary,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting analysis: %w", err)
	}
	return result.LastInsertId()
}

// GetAnalysisForArticle returns the analysis for an article, or nil when
// the article has not been analyzed yet.
func (db *DB) GetAnalysisForArticle(articleID int64) (*AnalysisResult, error) {
	row := db.conn.QueryRow(
		`SELECT id, article_id, company_name, ceo_name, summary, analyzed_at
		FROM analysis_results WHERE article_id = ?`, articleID,
	)

	var r AnalysisResult
	err := row.Scan(&r.ID, &r.ArticleID, &r.CompanyName, &r.CEOName, &r.Summary, &r.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
