package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/config"
	"github.com/javajoker/keebmarket-backend/internal/database"
	"github.com/javajoker/keebmarket-backend/internal/feed"
	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/profileform"
	"github.com/javajoker/keebmarket-backend/internal/router"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

var (
	dbCounter int64
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

type ClientTestSuite struct {
	suite.Suite
	db     *gorm.DB
	server *httptest.Server
	seller uuid.UUID
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("", "en"))
}

func (suite *ClientTestSuite) SetupTest() {
	cfg := &config.Config{
		Environment: "test",
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         fmt.Sprintf("file:client_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1)),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			MaxLifetime:  300,
			LogLevel:     "silent",
		},
		Auth:     config.AuthConfig{JWTSecret: "client-secret"},
		Storage:  config.StorageConfig{LocalDir: suite.T().TempDir(), PublicBaseURL: "http://localhost:8080/uploads", MaxImageSize: 1 << 20, MaxImages: 4},
		Listings: config.ListingsConfig{DefaultLimit: 15, MaxLimit: 100},
	}

	db, err := database.Initialize(cfg.Database)
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(db))
	suite.Require().NoError(database.SeedInitialData(db))

	store := services.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	storage := services.NewStorageServiceWithStore(store, cfg.Storage.MaxImageSize, cfg.Storage.MaxImages)

	suite.db = db
	suite.server = httptest.NewServer(router.InitializeWithStorage(db, cfg, storage))
	suite.seller = uuid.New()
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.server.Close()
	database.Close(suite.db)
}

func (suite *ClientTestSuite) anonymous() *Client {
	return New(suite.server.URL, WithHTTPClient(suite.server.Client()))
}

func (suite *ClientTestSuite) authed(id uuid.UUID) *Client {
	token, err := utils.GenerateJWT(id, "", time.Hour)
	suite.Require().NoError(err)
	return New(suite.server.URL, WithHTTPClient(suite.server.Client()), WithToken(token))
}

func (suite *ClientTestSuite) onboard(c *Client, username string) {
	form := profileform.New()
	suite.Require().NoError(form.SetUsername(username))
	form.Discord = username
	_, err := form.AddPaymentMethod("paypal")
	suite.Require().NoError(err)
	i := form.AddShippingLocation()
	suite.Require().NoError(form.SetGlobal(i, true))
	suite.Require().NoError(form.SetCost(i, "25"))

	profile, err := form.Submit(context.Background(), c)
	suite.Require().NoError(err)
	suite.Equal(username, profile.Username)
}

func (suite *ClientTestSuite) TestQueryListings() {
	c := suite.anonymous()
	ctx := context.Background()

	all, err := c.QueryListings(ctx, models.ListingQuery{Limit: 15})
	suite.Require().NoError(err)
	suite.Len(all, 4)

	switches, err := c.QueryListings(ctx, models.ListingQuery{Category: models.ProductTypeSwitches, Limit: 15})
	suite.Require().NoError(err)
	suite.Require().Len(switches, 1)
	suite.Equal("Gateron", switches[0].Brand)

	cheapest, err := c.QueryListings(ctx, models.ListingQuery{SortBy: models.SortPriceLowHigh, Limit: 1})
	suite.Require().NoError(err)
	suite.Require().Len(cheapest, 1)
	suite.Equal(int64(3500), cheapest[0].PriceCents)

	none, err := c.QueryListings(ctx, models.ListingQuery{Search: "no such thing", Limit: 15})
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)

	view, err := c.GetListing(ctx, cheapest[0].ID)
	suite.Require().NoError(err)
	suite.Equal(cheapest[0].Name, view.Name)

	_, err = c.GetListing(ctx, 9999)
	suite.True(IsStatus(err, http.StatusNotFound))
}

func (suite *ClientTestSuite) TestFeedOverClient() {
	ctrl := feed.NewController(suite.anonymous(), feed.ModePaginated)
	ctx := context.Background()

	suite.Require().NoError(ctrl.Refresh(ctx))
	state := ctrl.State()
	suite.Len(state.Listings, 4)
	suite.False(state.HasMore)
	suite.False(state.IsFirstLoad)

	suite.Require().NoError(ctrl.SetFilters(ctx, feed.Filters{Search: "gmk"}))
	state = ctrl.State()
	suite.Require().Len(state.Listings, 1)
	suite.Equal("GMK", state.Listings[0].Brand)

	preview := feed.NewController(suite.anonymous(), feed.ModePreview)
	suite.Require().NoError(preview.Refresh(ctx))
	suite.Len(preview.State().Listings, 4)
	suite.False(preview.State().HasMore)
}

func (suite *ClientTestSuite) TestRequiresToken() {
	_, err := suite.anonymous().CurrentUser(context.Background())

	var apiErr *APIError
	suite.Require().ErrorAs(err, &apiErr)
	suite.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	suite.Equal("UNAUTHORIZED", apiErr.Code)
	suite.NotEmpty(apiErr.Message)
}

func (suite *ClientTestSuite) TestProfileRoundTrip() {
	c := suite.authed(suite.seller)
	ctx := context.Background()
	suite.onboard(c, "switch_fan")

	profile, err := c.CurrentUser(ctx)
	suite.Require().NoError(err)
	suite.Equal("switch_fan", profile.Username)
	suite.Equal([]string{"PayPal"}, profile.PaymentMethods)

	form := profileform.FromProfile(profile)
	suite.True(form.UsernameLocked())
	form.SetPhoneNumber("5551234567")
	updated, err := form.Submit(ctx, c)
	suite.Require().NoError(err)
	suite.Equal("+1 555-123-4567", updated.Phone)

	email := "fan@example.com"
	patched, err := c.UpdateCurrentUser(ctx, &services.UpdateProfileRequest{Email: &email})
	suite.Require().NoError(err)
	suite.Equal(email, patched.Email)

	seller, err := suite.anonymous().SellerByUUID(ctx, suite.seller.String())
	suite.Require().NoError(err)
	suite.Equal("switch_fan", seller.Username)

	_, err = suite.anonymous().SellerByUUID(ctx, "not-a-uuid")
	suite.True(IsStatus(err, http.StatusBadRequest))

	other := suite.authed(uuid.New())
	_, err = other.UpsertProfile(ctx, &services.UpsertProfileRequest{Username: "switch_fan", Reddit: "u/other"})
	suite.True(IsStatus(err, http.StatusConflict))
}

func (suite *ClientTestSuite) TestSubmitListing() {
	c := suite.authed(suite.seller)
	ctx := context.Background()
	suite.onboard(c, "switch_fan")

	req := &services.CreateListingRequest{
		Name:        "Tofu60",
		Price:       decimal.RequireFromString("120.50"),
		Description: "Aluminium case",
		ProductType: models.ProductTypeKeyboards,
		Brand:       "KBDFans",
		Condition:   "Good",
	}
	view, err := c.SubmitListing(ctx, req, []Image{
		{Name: "front.png", Content: pngHeader},
		{Name: "back.png", Content: pngHeader},
	})
	suite.Require().NoError(err)
	suite.Len(view.Images, 2)
	suite.Equal(int64(12050), view.PriceCents)
	suite.Equal("switch_fan", view.Username)
	suite.True(view.IsGlobalShipping)

	mine, err := c.MyListings(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(mine, 1)

	suite.Require().NoError(c.DeleteListing(ctx, view.ID))
	suite.True(IsStatus(c.DeleteListing(ctx, view.ID), http.StatusNotFound))
}

func (suite *ClientTestSuite) TestSubmitListingAbortsOnUploadFailure() {
	c := suite.authed(suite.seller)
	ctx := context.Background()
	suite.onboard(c, "switch_fan")

	req := &services.CreateListingRequest{
		Name:        "Tofu60",
		Price:       decimal.NewFromInt(100),
		ProductType: models.ProductTypeKeyboards,
		Brand:       "KBDFans",
		Condition:   "Good",
	}
	_, err := c.SubmitListing(ctx, req, []Image{
		{Name: "front.png", Content: pngHeader},
		{Name: "notes.txt", Content: []byte("not an image")},
	})
	suite.Require().Error(err)
	suite.True(IsStatus(err, http.StatusBadRequest))

	mine, err := c.MyListings(ctx)
	suite.Require().NoError(err)
	suite.Empty(mine)
}

func (suite *ClientTestSuite) TestReportAndCatalogs() {
	c := suite.anonymous()
	ctx := context.Background()

	listings, err := c.QueryListings(ctx, models.ListingQuery{Limit: 1})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(listings)

	id, err := c.Report(ctx, &services.CreateReportRequest{ListingID: listings[0].ID, URL: "http://localhost:3000/listing/1"})
	suite.Require().NoError(err)
	suite.NotZero(id)

	_, err = c.Report(ctx, &services.CreateReportRequest{ListingID: 9999, URL: "http://localhost:3000/listing/9999"})
	suite.True(IsStatus(err, http.StatusNotFound))

	categories, err := c.Categories(ctx)
	suite.Require().NoError(err)
	suite.Contains(categories, models.ProductTypeKeycaps)

	methods, err := c.PaymentMethods(ctx)
	suite.Require().NoError(err)
	suite.Len(methods, len(models.PaymentMethods))
}
