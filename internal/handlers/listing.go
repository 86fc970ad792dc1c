// internal/handlers/listing.go
package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/keebmarket-backend/internal/config"
	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
	storageService *services.StorageService
	limits         config.ListingsConfig
}

func NewListingHandler(listingService *services.ListingService, storageService *services.StorageService, limits config.ListingsConfig) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		storageService: storageService,
		limits:         limits,
	}
}

// GET /listings-query
func (h *ListingHandler) QueryListings(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.limits.DefaultLimit, h.limits.MaxLimit)

	query := models.ListingQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("productType")),
		Region:   strings.TrimSpace(c.Query("region")),
		IsGlobal: c.Query("isGlobal") == "true",
		SortBy:   models.ParseSortKey(c.Query("sortBy")),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	views, err := h.listingService.QueryListings(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, params, len(views))
	utils.SuccessResponseWithMeta(c, views, gin.H{
		"page":     params.Page,
		"limit":    params.Limit,
		"returned": len(views),
	})
}

// GET /listing-by-id?id=
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}

	view, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// POST /listing-create
// The body is either {"listing": {...}} or the listing fields at the top level.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}

	var envelope struct {
		Listing *services.CreateListingRequest `json:"listing"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		bindError(c, err)
		return
	}
	req := envelope.Listing
	if req == nil {
		req = &services.CreateListingRequest{}
		if err := json.Unmarshal(raw, req); err != nil {
			bindError(c, err)
			return
		}
	}

	view, err := h.listingService.CreateListing(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": view,
	})
}

// GET /my-listings
func (h *ListingHandler) MyListings(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.listingService.MyListings(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, views)
}

// DELETE /my-listings?id=
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, ok := h.listingID(c)
	if !ok {
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), sellerID, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingDeleted),
		"id":      id,
	})
}

// POST /listing-images
func (h *ListingHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), nil)
		return
	}

	results, err := h.storageService.UploadListingImages(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}

	utils.CreatedResponse(c, gin.H{
		"urls":   urls,
		"images": results,
	})
}

func (h *ListingHandler) listingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyListingInvalidID), nil)
		return 0, false
	}
	return uint(id), true
}
