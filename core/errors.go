package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// GenericErrorMessage is shown when the server gives no usable message.
const GenericErrorMessage = "Something went wrong. Please try again."

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client-side form rejection; it never reaches the network.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		msgs := make([]string, 0, len(err.Fields))
		for _, f := range err.Fields {
			msgs = append(msgs, f.Field+": "+f.Error)
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// ValidationErrorFrom converts validator.ValidationErrors into a *ValidationError with translated messages.
// Any other error is returned as is.
func ValidationErrorFrom(err error) error {
	if err == nil {
		return nil
	}
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return &ValidationError{Fields: flds}
}

// NetworkError means the request never completed.
type NetworkError struct {
	Err error
}

func (err *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

// HTTPError is a non-2xx response or an unreadable response body (Status 0).
type HTTPError struct {
	Status  int
	Message string
}

// ErrParseMessage is the HTTPError message of malformed response bodies.
const ErrParseMessage = "parse error"

func NewParseError() *HTTPError {
	return &HTTPError{Status: 0, Message: ErrParseMessage}
}

func (err *HTTPError) Error() string {
	if err.Status == 0 {
		return err.Message
	}
	return fmt.Sprintf("%d %s: %s", err.Status, http.StatusText(err.Status), err.Message)
}

// PartialCreationError reports a multi-step creation where the credential step succeeded
// and the profile step failed.
type PartialCreationError struct {
	CredentialID int
	Compensated  bool
	Err          error
}

func (err *PartialCreationError) Error() string {
	state := "orphaned"
	if err.Compensated {
		state = "rolled back"
	}
	return fmt.Sprintf("partial creation: credential %d %s: %v", err.CredentialID, state, err.Err)
}

func (err *PartialCreationError) Unwrap() error { return err.Err }

// Describe maps any error of the taxonomy to a notification title and message.
func Describe(err error) (title, message string) {
	switch e := errors.Cause(err).(type) {
	case *ValidationError:
		return "Invalid input", e.Error()
	case ValidationError:
		return "Invalid input", e.Error()
	case *NetworkError:
		return "Network error", "Could not reach the server. Check your connection and try again."
	case *HTTPError:
		if e.Status == 0 {
			return "Unexpected response", "The server sent a response that could not be read."
		}
		msg := e.Message
		if msg == "" {
			msg = GenericErrorMessage
		}
		return "Request failed", msg
	case *PartialCreationError:
		if e.Compensated {
			return "Creation failed", "The account could not be completed and was rolled back: " + errMessage(e.Err)
		}
		return "Partially created", "The login was created but the profile was not. Contact an administrator: " + errMessage(e.Err)
	default:
		return "Error", GenericErrorMessage
	}
}

func errMessage(err error) string {
	if herr, ok := errors.Cause(err).(*HTTPError); ok && herr.Message != "" {
		return herr.Message
	}
	_, msg := Describe(err)
	return msg
}
