// internal/client/listings.go
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/services"
)

// QueryListings runs a listing search. It satisfies feed.Fetcher.
func (c *Client) QueryListings(ctx context.Context, q models.ListingQuery) ([]models.ListingView, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("productType", q.Category)
	}
	if q.Region != "" {
		query.Set("region", q.Region)
	}
	if q.IsGlobal {
		query.Set("isGlobal", "true")
	}
	if q.SortBy != "" {
		query.Set("sortBy", string(q.SortBy))
	}
	query.Set("page", strconv.Itoa(q.Page))
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var views []models.ListingView
	if err := c.doJSON(ctx, http.MethodGet, "/listings-query", query, nil, &views); err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.ListingView{}
	}
	return views, nil
}

func (c *Client) GetListing(ctx context.Context, id uint) (*models.ListingView, error) {
	var view models.ListingView
	query := url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}
	if err := c.doJSON(ctx, http.MethodGet, "/listing-by-id", query, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CreateListing(ctx context.Context, req *services.CreateListingRequest) (*models.ListingView, error) {
	var out struct {
		Listing models.ListingView `json:"listing"`
	}
	in := map[string]interface{}{"listing": req}
	if err := c.doJSON(ctx, http.MethodPost, "/listing-create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Listing, nil
}

func (c *Client) MyListings(ctx context.Context) ([]models.ListingView, error) {
	var views []models.ListingView
	if err := c.doJSON(ctx, http.MethodGet, "/my-listings", nil, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) DeleteListing(ctx context.Context, id uint) error {
	query := url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}
	return c.doJSON(ctx, http.MethodDelete, "/my-listings", query, nil, nil)
}

// Image is a file picked for upload.
type Image struct {
	Name    string
	Content []byte
}

// UploadImage stores a single listing image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, img Image) (*services.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("images", img.Name)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(img.Content)); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/listing-images", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Images []services.UploadResult `json:"images"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Images) == 0 {
		return nil, fmt.Errorf("upload %s: empty response", img.Name)
	}
	return &out.Images[0], nil
}

// SubmitListing uploads every image concurrently and creates the listing
// only once all uploads succeeded. Image URLs keep the order of images.
func (c *Client) SubmitListing(ctx context.Context, req *services.CreateListingRequest, images []Image) (*models.ListingView, error) {
	urls := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			result, err := c.UploadImage(gctx, img)
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Name, err)
			}
			urls[i] = result.URL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	submit := *req
	submit.Images = append(append([]string(nil), req.Images...), urls...)
	return c.CreateListing(ctx, &submit)
}
