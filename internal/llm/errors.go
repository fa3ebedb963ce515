package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fault categories reported as the error kind of a failed run.
const (
	KindUnauthorized  = "ProviderUnauthorized"
	KindRateLimited   = "ProviderRateLimited"
	KindTimeout       = "ProviderTimeout"
	KindNetwork       = "ProviderNetworkError"
	KindNotFound      = "ProviderNotFound"
	KindUnavailable   = "ProviderUnavailable"
	KindEmptyResponse = "EmptyResponse"
	KindCanceled      = "Canceled"
)

// ProviderError is a completion failure classified by fault category.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Kind returns the fault category. The orchestrator reports it as the
// error_type of a failed run.
func (e *ProviderError) Kind() string { return e.Code }

func (e *ProviderError) Unwrap() error { return e.Cause }

// Retryable reports whether the failure is transient. The pipeline never
// retries; callers deciding whether to resubmit a run may use it.
func (e *ProviderError) Retryable() bool {
	switch e.Code {
	case KindRateLimited, KindTimeout, KindNetwork, KindUnavailable:
		return true
	default:
		return false
	}
}

func newProviderError(provider, code, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// TranslateError classifies a raw provider error by its content.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return newProviderError(provider, KindCanceled, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return newProviderError(provider, KindTimeout, "request timed out", err)
	}

	lowerMsg := strings.ToLower(err.Error())
	switch {
	case containsAny(lowerMsg, "unauthorized", "authentication", "api key", "status code: 401", "status code: 403"):
		return newProviderError(provider, KindUnauthorized, "authentication failed", err)
	case containsAny(lowerMsg, "rate limit", "too many requests", "status code: 429"):
		return newProviderError(provider, KindRateLimited, "rate limit exceeded", err)
	case containsAny(lowerMsg, "timeout", "timed out", "deadline"):
		return newProviderError(provider, KindTimeout, "request timed out", err)
	case containsAny(lowerMsg, "network", "connection", "no such host", "dial tcp"):
		return newProviderError(provider, KindNetwork, "network failure", err)
	case containsAny(lowerMsg, "not found", "status code: 404"):
		return newProviderError(provider, KindNotFound, "model or deployment not found", err)
	default:
		return newProviderError(provider, KindUnavailable, "provider unavailable", err)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
