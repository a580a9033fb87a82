// Package panicerr runs background work so that a panic surfaces as an error
// instead of taking the whole server down.
package panicerr

import (
	"context"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// SafeContext wraps fn so that a panic inside it is returned as an error.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn(ctx)
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}

// Group runs named background loops and reports the first failure.
type Group struct {
	wg   conc.WaitGroup
	errs chan error
}

func NewGroup() *Group {
	return &Group{errs: make(chan error, 16)}
}

// Go starts fn in its own goroutine. Errors and panics are delivered on Errors.
func (g *Group) Go(ctx context.Context, fn func(context.Context) error) {
	safe := SafeContext(fn)
	g.wg.Go(func() {
		if err := safe(ctx); err != nil {
			select {
			case g.errs <- err:
			default:
			}
		}
	})
}

// Errors delivers failures of loops started with Go.
func (g *Group) Errors() <-chan error {
	return g.errs
}

// Wait blocks until every loop has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}
