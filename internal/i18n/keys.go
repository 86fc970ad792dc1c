// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError = "common.internal_error"
	KeyRateLimited   = "common.rate_limited"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Profiles
	KeyUserProfileUpdated    = "user.profile_updated"
	KeyUserNotFound          = "user.not_found"
	KeyUserInvalidUUID       = "user.invalid_uuid"
	KeyUsernameTaken         = "user.username_taken"
	KeyUsernameImmutable     = "user.username_immutable"
	KeyUsernameRequired      = "user.username_required"
	KeyProfileIncomplete     = "user.profile_incomplete"
	KeyContactMethodRequired = "user.contact_method_required"

	// Listings
	KeyListingCreated   = "listing.created"
	KeyListingDeleted   = "listing.deleted"
	KeyListingNotFound  = "listing.not_found"
	KeyListingInvalidID = "listing.invalid_id"

	// Reports
	KeyReportCreated = "report.created"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
	KeyFileTooMany      = "file.too_many"
	KeyFileMissing      = "file.missing"
)
