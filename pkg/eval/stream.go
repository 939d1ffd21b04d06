package eval

import (
	"context"
	"fmt"
	"io"

	"github.com/secondlayerco/jsonata/pkg/ast"
)

// StreamResult holds the output of a single streaming evaluation step.
type StreamResult struct {
	// Value is the evaluated result for one input document, or nil when Err is set.
	Value interface{}
	// Err is non-nil when evaluation of a single document failed. After a
	// fatal I/O or JSON-decode error the channel is closed; per-document
	// evaluation errors are sent individually and the stream continues.
	Err error
}

// EvalStream reads a sequence of top-level JSON values from r (e.g.
// NDJSON / JSON-seq) and evaluates expr against each one, sending
// results on the returned channel. This is JSON-framing convenience
// around repeated Eval calls, not an in-document streaming evaluator
// (spec §5's Non-goals: large single-document streaming is out of
// scope; reading a sequence of whole documents is not).
//
// The channel is closed when all input has been consumed or the context
// is cancelled. A fatal I/O or JSON-decode error is sent as a
// StreamResult with a non-nil Err and then the channel is closed. It is
// the caller's responsibility to drain the channel or cancel the
// context to avoid goroutine leaks.
func (ev *Evaluator) EvalStream(ctx context.Context, expr *ast.Expression, r io.Reader) (<-chan StreamResult, error) {
	if expr == nil || expr.Root == nil {
		return nil, fmt.Errorf("jsonata: invalid expression")
	}

	ch := make(chan StreamResult, 16)
	dec := ast.NewJSONDecoder(r)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				ch <- StreamResult{Err: ctx.Err()}
				return
			default:
			}

			data, err := ast.DecodeNext(dec)
			if err != nil {
				if err == io.EOF {
					return
				}
				ch <- StreamResult{Err: err}
				return
			}

			result, err := ev.Eval(ctx, expr, data)
			ch <- StreamResult{Value: result, Err: err}
		}
	}()

	return ch, nil
}
