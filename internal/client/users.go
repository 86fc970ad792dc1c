// internal/client/users.go
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/services"
)

func (c *Client) CurrentUser(ctx context.Context) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.doJSON(ctx, http.MethodGet, "/current-user", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateCurrentUser(ctx context.Context, req *services.UpdateProfileRequest) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.doJSON(ctx, http.MethodPatch, "/current-user", nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the caller's seller profile. It satisfies
// profileform.Submitter.
func (c *Client) UpsertProfile(ctx context.Context, req *services.UpsertProfileRequest) (*models.ProfileView, error) {
	var out struct {
		Profile models.ProfileView `json:"profile"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/profile-upsert", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *Client) SellerByUUID(ctx context.Context, sellerUUID string) (*models.SellerView, error) {
	var seller models.SellerView
	query := url.Values{"seller_uuid": {sellerUUID}}
	if err := c.doJSON(ctx, http.MethodGet, "/seller-by-uuid", query, nil, &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

// Report flags a listing and returns the report id.
func (c *Client) Report(ctx context.Context, req *services.CreateReportRequest) (uint, error) {
	var out struct {
		ID uint `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/report", nil, req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.doJSON(ctx, http.MethodGet, "/categories", nil, nil, &categories)
	return categories, err
}

func (c *Client) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := c.doJSON(ctx, http.MethodGet, "/payment-methods", nil, nil, &methods)
	return methods, err
}
