package database

// Article is a persisted record of one fetched page. Rows are created once
// per distinct URL and never updated or deleted.
type Article struct {
	ID              int64
	URL             string
	Title           string
	PublicationDate string
	BodyText        string
	FetchedAt       *string
}

// AnalysisResult holds the structured facts derived from an article's body
// text. At most one row exists per article; all three fields may be empty
// when the model omits them.
type AnalysisResult struct {
	ID          int64
	ArticleID   int64
	CompanyName *string
	CEOName     *string
	Summary     *string
	AnalyzedAt  *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles    int
	AnalyzedArticles int
	PendingAnalysis  int
}
