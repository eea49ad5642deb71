package linkedin

import "fmt"

// Kind classifies a search failure.
type Kind int

const (
	// KindUnexpected covers everything the other kinds do not, including
	// malformed response bodies and recovered panics.
	KindUnexpected Kind = iota
	// KindConfiguration means the API key or host is missing. No request
	// was sent.
	KindConfiguration
	// KindRateLimited is an HTTP 429 from the API.
	KindRateLimited
	// KindAPI is any non-200, non-429 HTTP status.
	KindAPI
	// KindTimeout means the request exceeded the client timeout.
	KindTimeout
	// KindNetwork is a transport failure other than a timeout.
	KindNetwork
)

// String returns the kind's log label.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRateLimited:
		return "rate_limited"
	case KindAPI:
		return "api"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// Error is the failure type returned by Client.Search. Message is ready to
// show to end users verbatim; Kind and Status let callers branch without
// matching strings.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, set for KindRateLimited and KindAPI
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying transport error, when there is one.
func (e *Error) Unwrap() error { return e.cause }

func errConfiguration() *Error {
	return &Error{Kind: KindConfiguration, Message: "API credentials not configured"}
}

func errRateLimited(status int) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Status:  status,
		Message: "Rate limit exceeded. Please wait a moment and try again.",
	}
}

func errAPI(status int, body string) *Error {
	return &Error{
		Kind:    KindAPI,
		Status:  status,
		Message: fmt.Sprintf("API error: %d - %s", status, body),
	}
}

func errTimeout(cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: "Request timed out. Please try again.",
		cause:   cause,
	}
}

func errNetwork(cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("Network error: %v", cause),
		cause:   cause,
	}
}

func errUnexpected(details string) *Error {
	return &Error{Kind: KindUnexpected, Message: "Unexpected error: " + details}
}
