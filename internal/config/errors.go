package config

import (
	"fmt"
	"strings"
)

// Error types reported by ConfigurationError.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
	ErrorTypeEnv        = "env"
)

// ConfigurationError is a structured error raised while loading configuration.
type ConfigurationError struct {
	// FilePath is the file or environment variable that caused the error
	FilePath  string `json:"filePath"`
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
	// Fields lists the offending fields of a validation error
	Fields []string `json:"fields,omitempty"`
}

func (ce *ConfigurationError) Error() string {
	if ce.FilePath == "" {
		return fmt.Sprintf("%s error: %s", ce.ErrorType, ce.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", ce.ErrorType, ce.FilePath, ce.Message)
}

// DetailedError returns a multi-line message listing every offending field.
func (ce *ConfigurationError) DetailedError() string {
	parts := []string{ce.Error()}
	for _, f := range ce.Fields {
		parts = append(parts, "  - "+f)
	}
	return strings.Join(parts, "\n")
}
