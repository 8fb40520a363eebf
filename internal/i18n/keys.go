// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"

	// Works
	KeyWorkSubmitted           = "work.submitted"
	KeyWorkUpdated             = "work.updated"
	KeyWorkDeleted             = "work.deleted"
	KeyWorkNotFound            = "work.not_found"
	KeyWorkLicensed            = "work.licensed"
	KeyWorkPlagiarismDetected  = "work.plagiarism_detected"
	KeyWorkUnsupportedFormat   = "work.unsupported_format"
	KeyWorkFileTooLarge        = "work.file_too_large"
	KeyWorkFileRequired        = "work.file_required"
	KeyWorkExtractionFailed    = "work.extraction_failed"
	KeyWorkPlagiarismCheckDone = "work.plagiarism_check_done"

	// Licenses
	KeyLicenseIssued      = "license.issued"
	KeyLicenseNotFound    = "license.not_found"
	KeyLicenseVerified    = "license.verified"
	KeyLicenseCertificate = "license.certificate_ready"
	KeyCertificateFailed  = "license.certificate_failed"

	// System
	KeySystemError       = "system.error"
	KeySystemRateLimited = "system.rate_limited"
)
