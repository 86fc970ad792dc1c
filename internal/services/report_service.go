// internal/services/report_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/models"
)

type ReportService struct {
	db *gorm.DB
}

type CreateReportRequest struct {
	ListingID uint   `json:"listing_id"`
	URL       string `json:"url"`
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport flags a listing for moderation.
func (s *ReportService) CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error) {
	if req.ListingID == 0 {
		return nil, newValidationError("listing_id", "is required")
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, newValidationError("url", "is required")
	}
	if len(url) > 2048 {
		return nil, newValidationError("url", "must be at most 2048 characters")
	}

	db := s.db.WithContext(ctx)

	var listing models.Listing
	if err := db.Select("id").First(&listing, req.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	report := &models.Report{
		ListingID: req.ListingID,
		URL:       url,
	}
	if err := db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"listing_id": report.ListingID,
	}).Info("Listing reported")

	return report, nil
}
