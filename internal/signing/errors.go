package signing

import "errors"

// Adapter errors, one per failure mode of the pipeline. The onboarding engine
// collapses all of them into a single generic retryable message; tests and
// logs distinguish them with errors.Is.
var (
	// ErrConfiguration means required credentials or endpoints are absent.
	// Surfaced at the point of use, never at startup.
	ErrConfiguration = errors.New("signing service not configured")

	ErrAuth               = errors.New("signing authentication rejected")
	ErrTemplateNotFound   = errors.New("contract template not found")
	ErrUpload             = errors.New("template upload rejected")
	ErrAgreement          = errors.New("agreement creation rejected")
	ErrSigningURLNotFound = errors.New("no signing url for signer")
	ErrSigningURL         = errors.New("signing url fetch rejected")
)
