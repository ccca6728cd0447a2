package domain

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration means the provider credential is missing or rejected.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport covers network and provider-side failures.
	ErrTransport = errors.New("transport error")
	// ErrEmptyResponse is a transport failure where the provider sent no text.
	ErrEmptyResponse = &wrapped{msg: "No response received from Gemini.", parent: ErrTransport}
	// ErrMalformedResponse means the reply could not be parsed into a SeoResponse.
	ErrMalformedResponse = errors.New("malformed response")
)

// FallbackMessage is shown when a failure carries no usable text.
const FallbackMessage = "An unexpected error occurred while generating tags."

// ErrorKind is the taxonomy bucket of a failure.
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "configuration"
	KindTransport         ErrorKind = "transport"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "unknown"
)

type wrapped struct {
	msg    string
	parent error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.parent }

// Classify maps err onto the taxonomy. A nil error has no kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// UserMessage turns err into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch Classify(err) {
	case KindConfiguration:
		return err.Error()
	case KindMalformedResponse:
		return "The AI returned a response that could not be interpreted: " + detail(err, ErrMalformedResponse)
	case KindTransport:
		if errors.Is(err, ErrEmptyResponse) {
			return ErrEmptyResponse.Error()
		}
		if msg := detail(err, ErrTransport); msg != "" {
			return msg
		}
		return FallbackMessage
	default:
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
		return FallbackMessage
	}
}

// detail drops the sentinel prefix so users see the cause, not the category.
func detail(err, sentinel error) string {
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, sentinel.Error())
	msg = strings.TrimLeft(msg, ": ")
	return msg
}
