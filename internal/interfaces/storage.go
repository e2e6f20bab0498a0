package interfaces

import (
	"context"

	"github.com/ternarybob/lucrum/internal/models"
)

// ReportStorage is the vector-indexed persistence layer for analysis
// results. Save embeds and stores in one operation: either a complete
// StoredReport with its vector exists afterwards, or nothing does.
type ReportStorage interface {
	// Save embeds a textual projection of the result and persists it.
	// Returns the generated report id. A StorageError means nothing was
	// persisted; the caller decides whether the in-memory result is still
	// returned to the user.
	Save(ctx context.Context, result *models.AnalysisResult, company string) (string, error)

	// Get returns a stored report by id, or a NotFoundError.
	Get(id string) (*models.StoredReport, error)

	// History returns stored reports newest first. limit <= 0 means all.
	History(limit int) ([]*models.StoredReport, error)

	// RecentForCompany returns up to limit reports for the company, newest
	// first. Matching is case-insensitive exact match on the company name;
	// substring matching is deliberately not supported to avoid attributing
	// one company's trend to another.
	RecentForCompany(name string, limit int) ([]*models.StoredReport, error)

	// Query runs similarity search over stored embeddings, optionally
	// restricted to one company, ordered by descending relevance. Tie
	// ordering is backend-defined.
	Query(ctx context.Context, question string, topN int, company string) ([]models.ScoredReport, error)

	// Count returns the number of stored reports.
	Count() (int, error)
}

// StorageManager owns the database connection and its storages.
type StorageManager interface {
	ReportStorage() ReportStorage

	// RunGC triggers a value-log garbage collection pass.
	RunGC() error

	Close() error
}
