package badger

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
)

// ReportStorage implements the ReportStorage interface for Badger. Reports
// are embedded on save and ranked by brute-force cosine similarity on query;
// at dashboard scale a linear scan over a few thousand vectors is faster
// than maintaining an index.
type ReportStorage struct {
	store    *badgerhold.Store
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewReportStorage creates a new ReportStorage instance
func NewReportStorage(store *badgerhold.Store, embedder interfaces.EmbeddingService, logger arbor.ILogger) interfaces.ReportStorage {
	return &ReportStorage{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Save builds the document projection, embeds it, and persists the report.
// Embedding failure aborts the save so every stored report has a vector.
func (s *ReportStorage) Save(ctx context.Context, result *models.AnalysisResult, company string) (string, error) {
	document := BuildDocument(result)

	embedding, err := s.embedder.GenerateEmbedding(ctx, document)
	if err != nil {
		return "", &common.StorageError{Op: "embed", Err: err}
	}

	resolvedName := company
	if resolvedName == "" {
		resolvedName = result.CompanyName()
	}
	if resolvedName == "" {
		resolvedName = "Unknown"
	}

	report := &models.StoredReport{
		ID:             common.NewReportID(),
		Company:        resolvedName,
		SentimentScore: result.SentimentScore(),
		Document:       document,
		Embedding:      embedding,
		Analysis:       result,
		CreatedAt:      time.Now(),
	}
	if result.CompanyInfo != nil {
		report.Ticker = result.CompanyInfo.Ticker
		report.Quarter = result.CompanyInfo.ReportingPeriod
	}

	if err := s.store.Insert(report.ID, report); err != nil {
		return "", &common.StorageError{Op: "save", Err: err}
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Str("company", report.Company).
		Str("quarter", report.Quarter).
		Msg("Report archived")

	return report.ID, nil
}

// Get returns a stored report by id
func (s *ReportStorage) Get(id string) (*models.StoredReport, error) {
	var report models.StoredReport
	if err := s.store.Get(id, &report); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, &common.NotFoundError{ID: id}
		}
		return nil, &common.StorageError{Op: "get", Err: err}
	}
	return &report, nil
}

// History returns stored reports newest first
func (s *ReportStorage) History(limit int) ([]*models.StoredReport, error) {
	var reports []models.StoredReport
	if err := s.store.Find(&reports, nil); err != nil {
		return nil, &common.StorageError{Op: "history", Err: err}
	}

	sortNewestFirst(reports)
	return takeRefs(reports, limit), nil
}

// RecentForCompany returns up to limit reports for the company, newest
// first. The match is a case-insensitive exact match on the company name so
// "Micro" never pulls in Microsoft's history.
func (s *ReportStorage) RecentForCompany(name string, limit int) ([]*models.StoredReport, error) {
	regex, err := regexp.Compile("(?i)^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$")
	if err != nil {
		return nil, &common.StorageError{Op: "company-history", Err: err}
	}

	var reports []models.StoredReport
	if err := s.store.Find(&reports, badgerhold.Where("Company").RegExp(regex)); err != nil {
		return nil, &common.StorageError{Op: "company-history", Err: err}
	}

	sortNewestFirst(reports)
	return takeRefs(reports, limit), nil
}

// Query embeds the question and ranks stored reports by cosine similarity,
// optionally restricted to one company.
func (s *ReportStorage) Query(ctx context.Context, question string, topN int, company string) ([]models.ScoredReport, error) {
	var reports []*models.StoredReport
	var err error
	if company != "" {
		reports, err = s.RecentForCompany(company, 0)
	} else {
		reports, err = s.History(0)
	}
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []models.ScoredReport{}, nil
	}

	queryVec, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, &common.StorageError{Op: "embed", Err: err}
	}

	scored := make([]models.ScoredReport, 0, len(reports))
	for _, r := range reports {
		scored = append(scored, models.ScoredReport{
			Report:    r,
			Relevance: cosineSimilarity(queryVec, r.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

// Count returns the number of stored reports
func (s *ReportStorage) Count() (int, error) {
	count, err := s.store.Count(&models.StoredReport{}, nil)
	if err != nil {
		return 0, &common.StorageError{Op: "count", Err: err}
	}
	return int(count), nil
}

func sortNewestFirst(reports []models.StoredReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

// takeRefs converts the find result to pointers, capped at limit when
// limit > 0.
func takeRefs(reports []models.StoredReport, limit int) []*models.StoredReport {
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	refs := make([]*models.StoredReport, len(reports))
	for i := range reports {
		refs[i] = &reports[i]
	}
	return refs
}
