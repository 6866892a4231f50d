package query

import (
	"errors"
	"fmt"
)

// ErrUnhandled is returned for a request no command matches. It is not a
// failure: the caller may route the request elsewhere.
var ErrUnhandled = errors.New("unhandled query")

// CodeGeneric is the failure code for errors without a code of their own
const CodeGeneric = -1

// Failure is the error a client receives for a failed query
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("query failed (%d): %s", f.Code, f.Message)
}

// CodedError is implemented by collaborator errors that carry their own
// failure code
type CodedError interface {
	error
	Code() int
}

// toFailure converts a collaborator error. Failures pass through unchanged,
// coded errors keep their code and anything else gets CodeGeneric.
func toFailure(err error) error {
	if err == nil || errors.Is(err, ErrUnhandled) {
		return err
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	var coded CodedError
	if errors.As(err, &coded) {
		return &Failure{Code: coded.Code(), Message: err.Error()}
	}
	return &Failure{Code: CodeGeneric, Message: err.Error()}
}
