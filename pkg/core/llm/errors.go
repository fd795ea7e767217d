package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// ErrRemoteService matches every *RemoteServiceError via errors.Is.
var ErrRemoteService = errors.New("remote service error")

// ErrorKind classifies a failed call to a text-generation backend.
type ErrorKind string

const (
	KindCredentialMissing ErrorKind = "credential_missing"
	KindQuotaExceeded     ErrorKind = "quota_exceeded"
	KindTransport         ErrorKind = "transport"
	KindService           ErrorKind = "service"
	KindEmptyResponse     ErrorKind = "empty_response"
)

// RemoteServiceError is returned by every provider call that fails.
type RemoteServiceError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		sb.WriteString(": " + e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

func (e *RemoteServiceError) Is(target error) bool { return target == ErrRemoteService }

// UserMessage is the text shown in place of the AI reply.
func (e *RemoteServiceError) UserMessage() string {
	switch e.Kind {
	case KindCredentialMissing:
		return fmt.Sprintf("AI features are unavailable: no API key is configured for %s.", e.Provider)
	case KindQuotaExceeded:
		return "The AI service quota has been exceeded. Please try again later."
	case KindTransport:
		return "Could not reach the AI service. Check the network connection and try again."
	case KindEmptyResponse:
		return "The AI service returned an empty response."
	default:
		if e.Detail != "" {
			return "The AI service returned an error: " + e.Detail
		}
		return "The AI service returned an error."
	}
}

// UserMessage converts any error into display text.
func UserMessage(err error) string {
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		return rse.UserMessage()
	}
	return "AI request failed: " + err.Error()
}

// IsKind reports whether err is a RemoteServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rse *RemoteServiceError
	return errors.As(err, &rse) && rse.Kind == kind
}

func credentialMissing(provider string, envVars ...string) *RemoteServiceError {
	return &RemoteServiceError{
		Provider: provider,
		Kind:     KindCredentialMissing,
		Detail:   "set " + strings.Join(envVars, " or "),
	}
}

func emptyResponse(provider string) *RemoteServiceError {
	return &RemoteServiceError{Provider: provider, Kind: KindEmptyResponse}
}

// statusError classifies a non-2xx HTTP answer.
func statusError(provider string, status int, body []byte) *RemoteServiceError {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 300 {
		detail = detail[:300] + "..."
	}
	kind := KindService
	if status == http.StatusTooManyRequests || looksLikeQuota(detail) {
		kind = KindQuotaExceeded
	}
	return &RemoteServiceError{Provider: provider, Kind: kind, StatusCode: status, Detail: detail}
}

// classify wraps an SDK or transport error.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		return err
	}

	out := &RemoteServiceError{Provider: provider, Kind: KindService, Err: err}

	var apiErr genai.APIError
	var apiPtr *genai.APIError
	var gErr *googleapi.Error
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Kind = KindTransport
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		out.Kind = KindTransport
	case errors.As(err, &apiErr):
		out.StatusCode = apiErr.Code
	case errors.As(err, &apiPtr):
		out.StatusCode = apiPtr.Code
	case errors.As(err, &gErr):
		out.StatusCode = gErr.Code
	}

	if out.StatusCode == http.StatusTooManyRequests || looksLikeQuota(err.Error()) {
		out.Kind = KindQuotaExceeded
	}
	return out
}

func transportError(provider string, err error) *RemoteServiceError {
	return &RemoteServiceError{Provider: provider, Kind: KindTransport, Err: err}
}

func looksLikeQuota(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "resource_exhausted") ||
		strings.Contains(s, "quota") ||
		strings.Contains(s, "rate limit")
}
