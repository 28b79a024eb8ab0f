package client

import (
	"context"

	"github.com/habedi/tixshell/pkg/pool"
)

// GetAll issues a GET for every path using up to workers concurrent
// requests. Results keep the order of paths. onDone, if set, is called
// after each request finishes.
func (c *Client) GetAll(ctx context.Context, paths []string, workers int, onDone func()) []pool.Result[string, *Response] {
	return pool.Run(ctx, paths, workers, func(ctx context.Context, path string) (*Response, error) {
		resp, err := c.Get(ctx, path)
		if onDone != nil {
			onDone()
		}
		return resp, err
	})
}
