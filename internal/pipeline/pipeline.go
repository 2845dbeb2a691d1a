package pipeline

import (
	"context"
	"fmt"
	"log"

	"bottomfeeder/internal/analyze"
	"bottomfeeder/internal/config"
	"bottomfeeder/internal/database"
	"bottomfeeder/internal/extract"
	"bottomfeeder/internal/fetch"
)

// Status is the terminal state of one URL for one run.
type Status string

const (
	// StatusAnalyzed: article and analysis are both persisted.
	StatusAnalyzed Status = "analyzed"
	// StatusStored: article persisted but analysis missing; a later run
	// will retry the analysis.
	StatusStored Status = "stored"
	// StatusSkipped: article and analysis already existed; nothing done.
	StatusSkipped Status = "skipped"
	// StatusFailed: nothing persisted for this URL.
	StatusFailed Status = "failed"
)

// Outcome reports what happened to a single URL.
type Outcome struct {
	URL       string
	ArticleID int64
	Status    Status
	Err       error
}

// Result holds the outcomes of a batch run.
type Result struct {
	Outcomes []Outcome
	Analyzed int
	Stored   int
	Skipped  int
	Failed   int
}

// Pipeline runs fetch -> extract -> persist -> analyze -> persist-analysis
// for article URLs, one at a time.
type Pipeline struct {
	db        *database.DB
	fetcher   *fetch.Fetcher
	analyzer  *analyze.Analyzer
	selectors config.Selectors
}

// New builds a pipeline from config. The analyzer credential is validated
// here so a missing key halts the process before any URL is touched.
func New(cfg *config.Config, db *database.DB) (*Pipeline, error) {
	key, err := cfg.Analyzer.Key()
	if err != nil {
		return nil, err
	}
	provider := analyze.NewChatProvider(cfg.Analyzer, key)
	return NewWithProvider(cfg, db, provider), nil
}

// NewWithProvider builds a pipeline with an explicit completion provider.
func NewWithProvider(cfg *config.Config, db *database.DB, provider analyze.Provider) *Pipeline {
	return &Pipeline{
		db:        db,
		fetcher:   fetch.New(cfg.Fetch.Timeout(), cfg.Fetch.UserAgent),
		analyzer:  analyze.New(provider, cfg.Analyzer.MaxTokens),
		selectors: cfg.Selectors,
	}
}

// Run processes URLs in order. A failure on one URL never aborts the batch.
func (p *Pipeline) Run(ctx context.Context, urls []string) *Result {
	r := &Result{}
	for _, url := range urls {
		outcome := p.FetchAndStore(ctx, url)
		r.Outcomes = append(r.Outcomes, outcome)
		switch outcome.Status {
		case StatusAnalyzed:
			r.Analyzed++
		case StatusStored:
			r.Stored++
		case StatusSkipped:
			r.Skipped++
		case StatusFailed:
			r.Failed++
		}
	}
	log.Printf("run complete: %d analyzed, %d stored, %d skipped, %d failed",
		r.Analyzed, r.Stored, r.Skipped, r.Failed)
	return r
}

// FetchAndStore processes a single URL:
//
//	existing article with analysis  -> skipped (idempotent no-op)
//	existing article, no analysis   -> analyze stored body, attach result
//	new URL                         -> fetch, extract, insert, analyze
//
// Extraction or storage failure means nothing is persisted for the URL.
// Analysis failure leaves the article stored and is retriable later.
func (p *Pipeline) FetchAndStore(ctx context.Context, url string) Outcome {
	existing, err := p.db.GetArticleByURL(url)
	if err != nil {
		return failed(url, fmt.Errorf("querying article: %w", err))
	}

	if existing != nil {
		log.Printf("article already exists: %s", existing.Title)

		analysis, err := p.db.GetAnalysisForArticle(existing.ID)
		if err != nil {
			return failed(url, fmt.Errorf("querying analysis: %w", err))
		}
		if analysis != nil {
			log.Printf("analysis already exists for article %d, skipping", existing.ID)
			return Outcome{URL: url, ArticleID: existing.ID, Status: StatusSkipped}
		}

		log.Printf("no analysis for article %d, analyzing stored body", existing.ID)
		return p.analyzeArticle(ctx, url, existing.ID, existing.BodyText)
	}

	log.Printf("fetching %s", url)
	html, err := p.fetcher.Get(ctx, url)
	if err != nil {
		return failed(url, fmt.Errorf("fetch: %w", err))
	}

	fields, err := extract.Extract(html, p.selectors)
	if err != nil {
		return failed(url, fmt.Errorf("extract: %w", err))
	}

	articleID, err := p.db.InsertArticle(url, fields.Title, fields.PublicationDate, fields.BodyText)
	if err != nil {
		return failed(url, fmt.Errorf("store: %w", err))
	}
	log.Printf("saved article %d: %s", articleID, fields.Title)

	return p.analyzeArticle(ctx, url, articleID, fields.BodyText)
}

// analyzeArticle runs the analyzer and attaches the result. Any failure is
// non-fatal: the article stays stored without an analysis row.
func (p *Pipeline) analyzeArticle(ctx context.Context, url string, articleID int64, bodyText string) Outcome {
	analysis, err := p.analyzer.Analyze(ctx, bodyText)
	if err != nil {
		log.Printf("analysis failed for %s: %v", url, err)
		return Outcome{URL: url, ArticleID: articleID, Status: StatusStored, Err: err}
	}

	if _, err := p.db.InsertAnalysis(articleID, analysis.CompanyName, analysis.CEOName, analysis.Summary); err != nil {
		log.Printf("saving analysis failed for %s: %v", url, err)
		return Outcome{URL: url, ArticleID: articleID, Status: StatusStored, Err: err}
	}

	log.Printf("analysis saved for article %d", articleID)
	return Outcome{URL: url, ArticleID: articleID, Status: StatusAnalyzed}
}

func failed(url string, err error) Outcome {
	log.Printf("failed %s: %v", url, err)
	return Outcome{URL: url, Status: StatusFailed, Err: err}
}
