package common

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates a missing or invalid provider configuration,
// such as an absent API key for the requested provider. Surfaced at request
// time so multi-provider deployments can run with a partial key set.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("configuration error for provider %s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// SourceUnavailableError indicates a fetch or parse failure while resolving
// report source material (URL, PDF, ticker lookup). Not retried automatically.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// ProviderTimeoutError indicates the LLM provider did not respond within the
// configured deadline.
type ProviderTimeoutError struct {
	Provider string
	Err      error
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("provider %s timed out: %v", e.Provider, e.Err)
}

func (e *ProviderTimeoutError) Unwrap() error { return e.Err }

// ProviderInvalidOutputError indicates the provider returned output that
// failed schema validation on both the initial attempt and the single
// corrective retry. RawOutput carries the last response for diagnostics.
type ProviderInvalidOutputError struct {
	Provider  string
	RawOutput string
	Err       error
}

func (e *ProviderInvalidOutputError) Error() string {
	return fmt.Sprintf("provider %s returned invalid structured output: %v", e.Provider, e.Err)
}

func (e *ProviderInvalidOutputError) Unwrap() error { return e.Err }

// StorageError indicates a persistence or query failure in the report store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotFoundError indicates a report id that does not exist in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStorageError reports whether err is a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
