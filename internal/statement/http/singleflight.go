package http

import (
	"context"

	"golang.org/x/sync/singleflight"
)

var renderGroup singleflight.Group

// renderShared collapses concurrent export requests for the same document
// into a single render while keeping each caller cancellable.
func renderShared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	resultChan := renderGroup.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}
