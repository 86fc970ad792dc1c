// internal/services/listing_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/shipping"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

const (
	DefaultListingLimit = 15
	MaxListingPrice     = 99999
)

var maxListingPrice = decimal.NewFromInt(MaxListingPrice)

type ListingService struct {
	db       *gorm.DB
	maxLimit int
}

type CreateListingRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"max=1000,maxwords=100"`
	ProductType string          `json:"product_type" validate:"required,oneof=Keyboards Switches Keycaps Accessories Miscellaneous"`
	Brand       string          `json:"brand" validate:"required,max=100"`
	Condition   string          `json:"condition" validate:"required,oneof=New Good Fair Poor"`
	Images      []string        `json:"images" validate:"required,min=1,max=10,dive,url"`
}

func NewListingService(db *gorm.DB, maxLimit int) *ListingService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &ListingService{
		db:       db,
		maxLimit: maxLimit,
	}
}

// QueryListings runs a listing search. Category, search, sort and paging are
// evaluated by the database; region and global-only filters are applied to the
// fetched page afterwards, so a filtered page may hold fewer than Limit rows.
func (s *ListingService) QueryListings(ctx context.Context, q models.ListingQuery) ([]models.ListingView, error) {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultListingLimit
	}
	if q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Listing{})

	if q.Category != "" {
		query = query.Where("product_type = ?", q.Category)
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		searchTerm := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(brand) LIKE ? ESCAPE '\\' OR LOWER(product_type) LIKE ? ESCAPE '\\')",
			searchTerm, searchTerm, searchTerm)
	}

	query = applyListingSort(query, models.ParseSortKey(string(q.SortBy)))
	query = utils.ApplyPagination(query, utils.PaginationParams{Page: q.Page, Limit: q.Limit})

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	views := make([]models.ListingView, 0, len(listings))
	for i := range listings {
		result := s.parseShipping(&listings[i])
		if q.HasShippingFilter() {
			if result.Malformed || !shipping.Matches(result.Locations, q.Region, q.IsGlobal) {
				continue
			}
		}
		views = append(views, toListingView(&listings[i], result.Locations))
	}

	return views, nil
}

func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.ListingView, error) {
	var listing models.Listing
	if err := s.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	view := toListingView(&listing, s.parseShipping(&listing).Locations)
	return &view, nil
}

func (s *ListingService) CreateListing(ctx context.Context, sellerUUID uuid.UUID, req *CreateListingRequest) (*models.ListingView, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Price.IsNegative() || req.Price.GreaterThan(maxListingPrice) {
		return nil, newValidationError("price", fmt.Sprintf("must be between 0 and %d", MaxListingPrice))
	}

	db := s.db.WithContext(ctx)

	// Only onboarded sellers may post
	var seller models.User
	if err := db.Where("uuid = ?", sellerUUID).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if seller.DisplayName() == "" {
		return nil, ErrProfileIncomplete
	}

	listing := &models.Listing{
		Title:             strings.TrimSpace(req.Name),
		PriceCents:        shipping.DollarsToCents(req.Price),
		Description:       strings.TrimSpace(req.Description),
		ProductType:       req.ProductType,
		Brand:             strings.TrimSpace(req.Brand),
		Condition:         req.Condition,
		Images:            models.StringArray(req.Images),
		SellerUUID:        sellerUUID,
		SellerUsername:    seller.DisplayName(),
		ShippingLocations: seller.ShippingLocations,
	}

	if err := db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"listing_id":  listing.ID,
		"seller_uuid": sellerUUID,
	}).Info("Listing created")

	view := toListingView(listing, s.parseShipping(listing).Locations)
	return &view, nil
}

// MyListings returns the seller's listings, newest first.
func (s *ListingService) MyListings(ctx context.Context, sellerUUID uuid.UUID) ([]models.ListingView, error) {
	var listings []models.Listing
	if err := s.db.WithContext(ctx).
		Where("seller_uuid = ?", sellerUUID).
		Order("created_at DESC").Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	views := make([]models.ListingView, 0, len(listings))
	for i := range listings {
		views = append(views, toListingView(&listings[i], s.parseShipping(&listings[i]).Locations))
	}
	return views, nil
}

// DeleteListing removes a listing owned by sellerUUID. A listing that does not
// exist or belongs to someone else yields ErrListingNotFound.
func (s *ListingService) DeleteListing(ctx context.Context, sellerUUID uuid.UUID, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND seller_uuid = ?", id, sellerUUID).
		Delete(&models.Listing{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}

	logrus.WithFields(logrus.Fields{
		"listing_id":  id,
		"seller_uuid": sellerUUID,
	}).Info("Listing deleted")
	return nil
}

func (s *ListingService) parseShipping(listing *models.Listing) shipping.Result {
	result := shipping.Parse(listing.ShippingLocations)
	if result.Malformed {
		malformedShippingTotal.Inc()
		logrus.WithFields(logrus.Fields{
			"listing_id": listing.ID,
			"error":      result.Err,
		}).Warn("Malformed shipping data on listing")
	}
	return result
}

func applyListingSort(query *gorm.DB, key models.SortKey) *gorm.DB {
	switch key {
	case models.SortPriceLowHigh:
		return query.Order("price_cents ASC").Order("id ASC")
	case models.SortPriceHighLow:
		return query.Order("price_cents DESC").Order("id DESC")
	case models.SortOldestFirst:
		return query.Order("created_at ASC").Order("id ASC")
	default:
		return query.Order("created_at DESC").Order("id DESC")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toListingView(listing *models.Listing, locations []models.ShippingLocation) models.ListingView {
	images := []string(listing.Images)
	if images == nil {
		images = []string{}
	}

	return models.ListingView{
		ID:               listing.ID,
		Name:             listing.Title,
		Price:            shipping.CentsToDollars(listing.PriceCents).InexactFloat64(),
		PriceCents:       listing.PriceCents,
		Description:      listing.Description,
		ProductType:      listing.ProductType,
		Brand:            listing.Brand,
		Condition:        listing.Condition,
		Images:           images,
		Username:         listing.SellerUsername,
		SellerID:         listing.SellerUUID.String(),
		CreatedAt:        listing.CreatedAt,
		IsGlobalShipping: shipping.HasGlobal(locations),
		ShippingOptions:  shipping.Project(locations),
	}
}
