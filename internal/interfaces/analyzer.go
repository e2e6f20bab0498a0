package interfaces

import (
	"context"

	"github.com/ternarybob/lucrum/internal/models"
)

// AnalyzerService orchestrates prompt building, provider calls, validation
// and persistence for earnings report analysis.
type AnalyzerService interface {
	// Analyze extracts a structured analysis from report text. When company
	// is given, recent prior reports for that company are merged into the
	// prompt as historical context. provider selects the LLM; "" uses the
	// configured default.
	Analyze(ctx context.Context, text, company, provider string) (*models.AnalysisResult, error)

	// Compare analyzes two report texts and derives trend direction per
	// metric. Unparsable metric values yield "indeterminate" trends.
	Compare(ctx context.Context, currentText, previousText, company, provider string) (*models.ComparisonResult, error)

	// Query answers a natural-language question over stored reports.
	Query(ctx context.Context, question, provider, company string) (*models.QueryResult, error)
}

// SourceResolver turns a report source reference into analyzable text.
type SourceResolver interface {
	// Resolve fetches and extracts text for the given source. sourceType is
	// one of "text", "url", "gdocs", "ticker".
	Resolve(ctx context.Context, source, sourceType string) (string, error)

	// ResolveUpload extracts text from uploaded file bytes. The filename
	// extension selects the extractor (pdf, docx, txt).
	ResolveUpload(ctx context.Context, data []byte, filename string) (string, error)
}
