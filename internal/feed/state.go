// Package feed drives a growing list of listings that reacts to filter
// changes and "load more" requests.
package feed

import (
	"github.com/javajoker/keebmarket-backend/internal/models"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
)

type Mode int

const (
	// ModePaginated is the full listings page with filters and load-more.
	ModePaginated Mode = iota
	// ModePreview is the homepage teaser: one fixed page of the newest listings.
	ModePreview
)

const (
	PageLimit    = 15
	PreviewLimit = 8
)

// Filters is the user-editable filter state.
type Filters struct {
	Search     string
	Category   string
	Region     string
	GlobalOnly bool
	SortBy     models.SortKey
}

// State is the feed's full state. Transitions are pure functions returning
// a new State.
type State struct {
	Mode     Mode
	Filters  Filters
	Status   Status
	Listings []models.ListingView
	// Page is the number of pages loaded under the current filters.
	Page        int
	HasMore     bool
	IsFirstLoad bool
	Err         error
	// Seq identifies the latest issued request; responses carrying any other
	// value are stale.
	Seq uint64
}

// Request is a fetch the caller must perform and report back with Seq.
type Request struct {
	Seq    uint64
	Query  models.ListingQuery
	Append bool
}

func NewState(mode Mode) State {
	return State{
		Mode:        mode,
		Status:      StatusIdle,
		Listings:    []models.ListingView{},
		HasMore:     true,
		IsFirstLoad: true,
	}
}

func (s State) limit() int {
	if s.Mode == ModePreview {
		return PreviewLimit
	}
	return PageLimit
}

func (s State) query(page int) models.ListingQuery {
	q := models.ListingQuery{
		Search:   s.Filters.Search,
		Category: s.Filters.Category,
		Region:   s.Filters.Region,
		IsGlobal: s.Filters.GlobalOnly,
		SortBy:   s.Filters.SortBy,
		Page:     page,
		Limit:    s.limit(),
	}
	if s.Mode == ModePreview {
		q.SortBy = models.SortNewestFirst
	}
	return q
}

// CanLoadMore reports whether a load-more request would start a fetch.
func (s State) CanLoadMore() bool {
	return s.Mode == ModePaginated && s.HasMore && s.Status != StatusFetching
}

// Reset applies new filters: the accumulated list is cleared and page 0 is
// requested. Any fetch still in flight becomes stale.
func Reset(s State, filters Filters) (State, Request) {
	s.Filters = filters
	s.Page = 0
	s.Listings = []models.ListingView{}
	s.Status = StatusFetching
	s.Err = nil
	s.Seq++
	return s, Request{Seq: s.Seq, Query: s.query(0)}
}

// LoadMore requests the next page. ok is false when the request is not
// allowed, in which case s is returned unchanged.
func LoadMore(s State) (next State, req Request, ok bool) {
	if !s.CanLoadMore() {
		return s, Request{}, false
	}
	s.Status = StatusFetching
	s.Err = nil
	s.Seq++
	return s, Request{Seq: s.Seq, Query: s.query(s.Page), Append: true}, true
}

// Succeed applies the results of req. Stale responses are ignored.
func Succeed(s State, req Request, results []models.ListingView) State {
	if req.Seq != s.Seq {
		return s
	}

	if req.Append {
		listings := make([]models.ListingView, 0, len(s.Listings)+len(results))
		listings = append(listings, s.Listings...)
		s.Listings = append(listings, results...)
		s.Page++
	} else {
		s.Listings = append([]models.ListingView{}, results...)
		s.Page = 1
	}

	s.HasMore = s.Mode == ModePaginated && len(results) == req.Query.Limit
	s.Status = StatusIdle
	s.IsFirstLoad = false
	s.Err = nil
	return s
}

// Fail records a failed fetch. The accumulated list is kept.
func Fail(s State, req Request, err error) State {
	if req.Seq != s.Seq {
		return s
	}
	s.Status = StatusIdle
	s.IsFirstLoad = false
	s.Err = err
	return s
}
