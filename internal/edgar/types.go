// Package edgar provides a client for the SEC EDGAR filing APIs.
// This package centralizes ticker resolution and filing lookups used to
// fetch earnings material directly from the SEC.
package edgar

import "fmt"

// Filing describes one SEC filing from a company's submission history.
type Filing struct {
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
	DocumentURL     string `json:"document_url"`
}

// Company is a resolved ticker from the SEC company registry.
type Company struct {
	CIK    int64  `json:"cik"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// APIError represents a non-2xx response from an EDGAR endpoint.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("edgar API error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// tickerEntry mirrors one record of company_tickers.json.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// submissions mirrors the parts of the submissions API response we use.
// Recent filings arrive as parallel arrays, one index per filing.
type submissions struct {
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}
