// internal/feed/controller.go
package feed

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/keebmarket-backend/internal/models"
)

// Fetcher runs a listing search, usually against the HTTP API.
type Fetcher interface {
	QueryListings(ctx context.Context, q models.ListingQuery) ([]models.ListingView, error)
}

// Controller serializes state transitions around a Fetcher. Fetches run
// without holding the lock; only the response to the latest request is applied.
type Controller struct {
	mu       sync.Mutex
	state    State
	fetcher  Fetcher
	onChange func(State)
}

type Option func(*Controller)

// WithOnChange registers a callback invoked after every state transition.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

func NewController(fetcher Fetcher, mode Mode, opts ...Option) *Controller {
	c := &Controller{
		state:   NewState(mode),
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetFilters resets the feed to page 0 under filters and fetches it. It
// returns the fetch error, if any; a stale response is dropped silently.
func (c *Controller) SetFilters(ctx context.Context, filters Filters) error {
	c.mu.Lock()
	next, req := Reset(c.state, filters)
	c.apply(next)
	c.mu.Unlock()

	return c.run(ctx, req)
}

// Refresh refetches page 0 under the current filters.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.SetFilters(ctx, c.State().Filters)
}

// LoadMore fetches the next page. It is a no-op returning false while a fetch
// is in flight, when there is nothing more to load, or in preview mode.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	next, req, ok := LoadMore(c.state)
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	c.apply(next)
	c.mu.Unlock()

	return true, c.run(ctx, req)
}

func (c *Controller) run(ctx context.Context, req Request) error {
	results, err := c.fetcher.QueryListings(ctx, req.Query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Seq != c.state.Seq {
		logrus.WithField("seq", req.Seq).Debug("Dropping stale listing response")
		return nil
	}
	if err != nil {
		c.apply(Fail(c.state, req, err))
		return err
	}
	c.apply(Succeed(c.state, req, results))
	return nil
}

// apply must be called with mu held.
func (c *Controller) apply(next State) {
	c.state = next
	if c.onChange != nil {
		c.onChange(next)
	}
}
