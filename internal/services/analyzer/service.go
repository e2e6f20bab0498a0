package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/llm"
	"github.com/ternarybob/lucrum/internal/services/prompts"
)

var decimalHundred = decimal.New(100, 0)

// ContentGenerator is the slice of the provider factory the analyzer
// needs.
type ContentGenerator interface {
	ResolveProvider(id string) (llm.ProviderType, error)
	GenerateContent(ctx context.Context, provider llm.ProviderType, request *llm.ContentRequest) (*llm.ContentResponse, error)
}

// Service orchestrates the analysis pipeline: context retrieval, prompt
// building, provider calls, validation with a single corrective retry, and
// persistence.
type Service struct {
	llm    ContentGenerator
	store  interfaces.ReportStorage
	config *common.Config
	logger arbor.ILogger
}

// NewService creates the analyzer service
func NewService(factory ContentGenerator, store interfaces.ReportStorage, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		llm:    factory,
		store:  store,
		config: config,
		logger: logger,
	}
}

var _ interfaces.AnalyzerService = (*Service)(nil)

// Analyze extracts a structured analysis from report text and archives it.
// A storage failure after a successful analysis downgrades to a warning:
// the result is returned with Metadata.PersistenceFailed set.
func (s *Service) Analyze(ctx context.Context, text, company, provider string) (*models.AnalysisResult, error) {
	providerType, err := s.llm.ResolveProvider(provider)
	if err != nil {
		return nil, err
	}

	var prior []models.StoredReport
	if company != "" {
		recent, err := s.store.RecentForCompany(company, s.config.Analysis.ContextReports)
		if err != nil {
			// historical context is an enrichment; analysis proceeds without it
			s.logger.Warn().Err(err).Str("company", company).Msg("Failed to load historical context")
		} else {
			for _, r := range recent {
				prior = append(prior, *r)
			}
		}
	}

	text = TruncateReport(text, s.config.Analysis.MaxPromptChars)
	prompt := prompts.Analysis(text, company, prior)

	var result *models.AnalysisResult
	resp, err := s.generateValidated(ctx, providerType, prompt, func(data []byte) error {
		var r models.AnalysisResult
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Metadata = &models.AnalysisMetadata{
		AnalyzedAt: time.Now(),
		Provider:   string(resp.Provider),
		Model:      resp.Model,
		TokenUsage: resp.Usage,
	}

	if _, err := s.store.Save(ctx, result, company); err != nil {
		s.logger.Warn().Err(err).Str("company", company).Msg("Analysis succeeded but could not be archived")
		result.Metadata.PersistenceFailed = true
	}

	return result, nil
}

// Compare analyzes both report texts independently, asks the model for a
// qualitative comparison, and derives metric-level trend directions
// locally from the two extractions.
func (s *Service) Compare(ctx context.Context, currentText, previousText, company, provider string) (*models.ComparisonResult, error) {
	providerType, err := s.llm.ResolveProvider(provider)
	if err != nil {
		return nil, err
	}

	current, err := s.extract(ctx, providerType, currentText, company)
	if err != nil {
		return nil, err
	}
	previous, err := s.extract(ctx, providerType, previousText, company)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Comparison(
		TruncateReport(currentText, s.config.Analysis.MaxPromptChars),
		TruncateReport(previousText, s.config.Analysis.MaxPromptChars),
		company)

	var comparison *models.ComparisonResult
	if _, err := s.generateValidated(ctx, providerType, prompt, func(data []byte) error {
		var c models.ComparisonResult
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		comparison = &c
		return nil
	}); err != nil {
		return nil, err
	}

	if comparison.Current == nil {
		comparison.Current = current.CompanyInfo
	}
	if comparison.Previous == nil {
		comparison.Previous = previous.CompanyInfo
	}
	comparison.MetricTrends = ComputeMetricTrends(current, previous)

	return comparison, nil
}

// Query answers a question over stored reports: similarity search first,
// then a grounded prompt over the retrieved summaries.
func (s *Service) Query(ctx context.Context, question, provider, company string) (*models.QueryResult, error) {
	providerType, err := s.llm.ResolveProvider(provider)
	if err != nil {
		return nil, err
	}

	scored, err := s.store.Query(ctx, question, 5, company)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return &models.QueryResult{
			Answer:     "No stored reports are available to answer this question.",
			Confidence: "low",
			Sources:    []models.QuerySource{},
		}, nil
	}

	prompt := prompts.Query(question, scored)
	resp, err := s.generate(ctx, providerType, prompt, false)
	if err != nil {
		return nil, err
	}

	sources := make([]models.QuerySource, 0, len(scored))
	for _, sc := range scored {
		sources = append(sources, models.QuerySource{
			ID:        sc.Report.ID,
			Company:   sc.Report.Company,
			Quarter:   sc.Report.Quarter,
			Relevance: sc.Relevance,
			Summary:   sc.Report.Document,
		})
	}

	return &models.QueryResult{
		Answer:  resp.Text,
		Sources: sources,
	}, nil
}

// extract runs the analysis prompt without historical context and without
// persisting; Compare uses it to get structured metrics for both periods.
func (s *Service) extract(ctx context.Context, provider llm.ProviderType, text, company string) (*models.AnalysisResult, error) {
	prompt := prompts.Analysis(TruncateReport(text, s.config.Analysis.MaxPromptChars), company, nil)

	var result *models.AnalysisResult
	if _, err := s.generateValidated(ctx, provider, prompt, func(data []byte) error {
		var r models.AnalysisResult
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		result = &r
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// generateValidated calls the provider and decodes the response. A decode
// or validation failure triggers exactly one corrective retry; a second
// failure surfaces as ProviderInvalidOutputError carrying the raw output.
// Token usage accumulates across attempts.
func (s *Service) generateValidated(ctx context.Context, provider llm.ProviderType, prompt string, decode func([]byte) error) (*llm.ContentResponse, error) {
	resp, err := s.generate(ctx, provider, prompt, true)
	if err != nil {
		return nil, err
	}

	decodeErr := decode([]byte(llm.ExtractJSON(resp.Text)))
	if decodeErr == nil {
		return resp, nil
	}

	s.logger.Warn().
		Err(decodeErr).
		Str("provider", string(provider)).
		Msg("Invalid structured output, retrying once with corrective instruction")

	retryResp, err := s.generate(ctx, provider, prompt+"\n\n"+prompts.Corrective, true)
	if err != nil {
		return nil, err
	}
	retryResp.Usage.Input += resp.Usage.Input
	retryResp.Usage.Output += resp.Usage.Output

	if decodeErr = decode([]byte(llm.ExtractJSON(retryResp.Text))); decodeErr != nil {
		return nil, &common.ProviderInvalidOutputError{
			Provider:  string(provider),
			RawOutput: retryResp.Text,
			Err:       decodeErr,
		}
	}
	return retryResp, nil
}

func (s *Service) generate(ctx context.Context, provider llm.ProviderType, prompt string, jsonOutput bool) (*llm.ContentResponse, error) {
	desc, _ := llm.Lookup(string(provider))

	request := &llm.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
		Temperature: s.config.LLM.Temperature,
		MaxTokens:   s.config.LLM.MaxTokens,
		JSONOutput:  jsonOutput && desc.SupportsStructuredOutput,
	}
	return s.llm.GenerateContent(ctx, provider, request)
}
