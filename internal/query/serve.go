package query

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Response is one line of serve output. Exactly one of Result, Error and
// Unhandled is set.
type Response struct {
	Result    Payload  `json:"result,omitempty"`
	Error     *Failure `json:"error,omitempty"`
	Unhandled bool     `json:"unhandled,omitempty"`
}

// Respond runs request and wraps the outcome in a Response
func (r *Router) Respond(request string) Response {
	p, err := r.Handle(request)
	switch {
	case err == nil:
		if p == nil {
			p = Empty{}
		}
		return Response{Result: p}
	case errors.Is(err, ErrUnhandled):
		return Response{Unhandled: true}
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		failure = &Failure{Code: CodeGeneric, Message: err.Error()}
	}
	return Response{Error: failure}
}

// Serve reads one request per line from in and writes one JSON response per
// line to out. Requests are handled in order, one at a time. Blank lines are
// skipped. It returns when in is exhausted or ctx is cancelled.
func (r *Router) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := enc.Encode(r.Respond(line)); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	return scanner.Err()
}
