// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

type UserHandler struct {
	profileService *services.ProfileService
}

func NewUserHandler(profileService *services.ProfileService) *UserHandler {
	return &UserHandler{
		profileService: profileService,
	}
}

// GET /current-user
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// PATCH /current-user
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateCurrentUser(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// POST /profile-upsert
func (h *UserHandler) UpsertProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileService.UpsertProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"profile": profile,
	})
}

// GET /seller-by-uuid?seller_uuid=
func (h *UserHandler) GetSellerByUUID(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	raw := c.Query("seller_uuid")
	if raw == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "seller_uuid"), nil)
		return
	}
	sellerID, err := uuid.Parse(raw)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUserInvalidUUID), nil)
		return
	}

	seller, err := h.profileService.GetSellerByUUID(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, seller)
}
