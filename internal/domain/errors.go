package domain

import "fmt"

// DocumentLoadError reports a source document that is missing, unreadable, or
// contains no extractable text. Fatal to startup; never retried.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load document %s: no extractable text", e.Path)
}

func (e *DocumentLoadError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid configuration value, detected once at
// startup before any processing.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// GenerationError reports a failed generative-model call. It is surfaced per
// question and does not terminate a batch; the caller may retry the one
// question.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
