package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents network failures and non-success statuses
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeRateLimit represents the exchange throttling us
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParse represents malformed markup or documents
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeListing represents announcement listing failures (fatal)
	ErrorTypeListing ErrorType = "listing"
	// ErrorTypeSink represents output persistence failures
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a source-specific error
type ScrapeError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// New creates a new ScrapeError
func New(errType ErrorType, source, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(source, message string, err error) *ScrapeError {
	return New(ErrorTypeTransport, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewParse creates a new parse error
func NewParse(source, message string, err error) *ScrapeError {
	return New(ErrorTypeParse, source, message, err)
}

// NewListing creates a new listing error
func NewListing(message string, err error) *ScrapeError {
	return New(ErrorTypeListing, "listing", message, err)
}

// NewSink creates a new sink error
func NewSink(source, message string, err error) *ScrapeError {
	return New(ErrorTypeSink, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	return IsType(err, ErrorTypeRateLimit)
}
