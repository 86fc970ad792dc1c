// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/keebmarket-backend/internal/database"
	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/shipping"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

type ProfileService struct {
	db *gorm.DB
}

// UpsertProfileRequest is the full profile submitted at onboarding or from the
// profile settings page.
type UpsertProfileRequest struct {
	Username          string                    `json:"username" validate:"omitempty,username"`
	Email             string                    `json:"email" validate:"omitempty,email,max=255"`
	Phone             string                    `json:"phone" validate:"max=32"`
	Reddit            string                    `json:"reddit" validate:"max=100"`
	Discord           string                    `json:"discord" validate:"max=100"`
	PaymentMethods    []string                  `json:"paymentMethods" validate:"max=20"`
	ShippingLocations []models.ShippingLocation `json:"shippingLocations" validate:"max=50"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username          *string                    `json:"username,omitempty" validate:"omitempty,username"`
	Email             *string                    `json:"email,omitempty" validate:"omitempty,max=255"`
	Phone             *string                    `json:"phone,omitempty" validate:"omitempty,max=32"`
	Reddit            *string                    `json:"reddit,omitempty" validate:"omitempty,max=100"`
	Discord           *string                    `json:"discord,omitempty" validate:"omitempty,max=100"`
	PaymentMethods    *[]string                  `json:"paymentMethods,omitempty"`
	ShippingLocations *[]models.ShippingLocation `json:"shippingLocations,omitempty"`
}

var profileColumns = []string{
	"username", "email", "phone", "reddit", "discord",
	"payment_methods", "shipping_locations", "updated_at",
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetCurrentUser(ctx context.Context, userUUID uuid.UUID) (*models.ProfileView, error) {
	user, err := s.findByUUID(s.db.WithContext(ctx), userUUID)
	if err != nil {
		return nil, err
	}
	view := toProfileView(user)
	return &view, nil
}

// GetSellerByUUID returns the public contact card of a seller.
func (s *ProfileService) GetSellerByUUID(ctx context.Context, sellerUUID uuid.UUID) (*models.SellerView, error) {
	user, err := s.findByUUID(s.db.WithContext(ctx), sellerUUID)
	if err != nil {
		return nil, err
	}

	return &models.SellerView{
		UUID:           user.UUID.String(),
		Username:       user.DisplayName(),
		Email:          user.Email,
		Phone:          user.Phone,
		Reddit:         user.Reddit,
		Discord:        user.Discord,
		PaymentMethods: nonNil(user.PaymentMethods),
	}, nil
}

// UpsertProfile creates the caller's profile or replaces every field of an
// existing one. The username is required the first time and cannot change later.
func (s *ProfileService) UpsertProfile(ctx context.Context, userUUID uuid.UUID, req *UpsertProfileRequest) (*models.ProfileView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	paymentMethods, err := normalizePaymentMethods(req.PaymentMethods)
	if err != nil {
		return nil, err
	}
	shippingData, err := encodeShipping(req.ShippingLocations)
	if err != nil {
		return nil, err
	}
	if !models.HasContactMethod(req.Email, req.Phone, req.Reddit, req.Discord) {
		return nil, ErrNoContactMethod
	}

	var saved *models.User
	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		existing, err := s.findByUUID(tx, userUUID)
		if err != nil && !errors.Is(err, ErrProfileNotFound) {
			return err
		}

		username, err := resolveUsername(existing, strings.TrimSpace(req.Username))
		if err != nil {
			return err
		}
		if err := s.ensureUsernameAvailable(tx, username, userUUID); err != nil {
			return err
		}

		user := &models.User{
			UUID:              userUUID,
			Username:          &username,
			Email:             strings.TrimSpace(req.Email),
			Phone:             strings.TrimSpace(req.Phone),
			Reddit:            strings.TrimSpace(req.Reddit),
			Discord:           strings.TrimSpace(req.Discord),
			PaymentMethods:    paymentMethods,
			ShippingLocations: shippingData,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.AssignmentColumns(profileColumns),
		}).Create(user).Error; err != nil {
			return translateProfileWriteError(err)
		}

		saved, err = s.findByUUID(tx, userUUID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_uuid", userUUID).Info("Profile saved")

	view := toProfileView(saved)
	return &view, nil
}

// UpdateCurrentUser applies a partial update to an existing profile.
func (s *ProfileService) UpdateCurrentUser(ctx context.Context, userUUID uuid.UUID, req *UpdateProfileRequest) (*models.ProfileView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var saved *models.User
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		user, err := s.findByUUID(tx, userUUID)
		if err != nil {
			return err
		}

		if req.Username != nil {
			username, err := resolveUsername(user, strings.TrimSpace(*req.Username))
			if err != nil {
				return err
			}
			if user.Username == nil {
				if err := s.ensureUsernameAvailable(tx, username, userUUID); err != nil {
					return err
				}
				user.Username = &username
			}
		}
		if req.Email != nil {
			user.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			user.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Reddit != nil {
			user.Reddit = strings.TrimSpace(*req.Reddit)
		}
		if req.Discord != nil {
			user.Discord = strings.TrimSpace(*req.Discord)
		}
		if req.PaymentMethods != nil {
			if user.PaymentMethods, err = normalizePaymentMethods(*req.PaymentMethods); err != nil {
				return err
			}
		}
		if req.ShippingLocations != nil {
			if user.ShippingLocations, err = encodeShipping(*req.ShippingLocations); err != nil {
				return err
			}
		}

		if !user.HasContactMethod() {
			return ErrNoContactMethod
		}

		if err := tx.Save(user).Error; err != nil {
			return translateProfileWriteError(err)
		}
		saved = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toProfileView(saved)
	return &view, nil
}

func (s *ProfileService) findByUUID(db *gorm.DB, userUUID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.Where("uuid = ?", userUUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *ProfileService) ensureUsernameAvailable(tx *gorm.DB, username string, owner uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("username = ? AND uuid <> ?", username, owner).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}

// resolveUsername decides the username to store given the current profile
// (nil when none exists) and the requested one.
func resolveUsername(existing *models.User, requested string) (string, error) {
	if existing != nil && existing.Username != nil {
		if requested != "" && requested != *existing.Username {
			return "", ErrUsernameImmutable
		}
		return *existing.Username, nil
	}
	if requested == "" {
		return "", ErrUsernameRequired
	}
	return requested, nil
}

func translateProfileWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return fmt.Errorf("failed to save profile: %w", err)
}

// normalizePaymentMethods drops duplicates while keeping order and rejects
// names outside the catalog.
func normalizePaymentMethods(names []string) (models.StringArray, error) {
	seen := make(map[string]bool, len(names))
	methods := make(models.StringArray, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !models.IsPaymentMethodName(name) {
			return nil, newValidationError("paymentMethods", fmt.Sprintf("unknown payment method %q", name))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		methods = append(methods, name)
	}
	return methods, nil
}

func encodeShipping(locations []models.ShippingLocation) (models.ShippingJSON, error) {
	for i, loc := range locations {
		if err := shipping.Validate(loc); err != nil {
			return nil, newValidationError("shippingLocations", fmt.Sprintf("entry %d: %v", i, err))
		}
	}
	data, err := shipping.Encode(locations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping locations: %w", err)
	}
	return data, nil
}

func toProfileView(user *models.User) models.ProfileView {
	result := shipping.Parse(user.ShippingLocations)
	if result.Malformed {
		logrus.WithFields(logrus.Fields{
			"user_uuid": user.UUID,
			"error":     result.Err,
		}).Warn("Malformed shipping data on profile")
	}
	locations := result.Locations
	if locations == nil {
		locations = []models.ShippingLocation{}
	}

	return models.ProfileView{
		UUID:              user.UUID.String(),
		Username:          user.DisplayName(),
		Email:             user.Email,
		Phone:             user.Phone,
		Reddit:            user.Reddit,
		Discord:           user.Discord,
		PaymentMethods:    nonNil(user.PaymentMethods),
		ShippingLocations: locations,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

func nonNil(values models.StringArray) []string {
	if values == nil {
		return []string{}
	}
	return []string(values)
}
