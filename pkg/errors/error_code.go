package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidDateRange     ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeStockNotFound         ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeEmptyRange            ErrorCode = 204
	ErrCodeCatalogUnavailable    ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 302

	// Market data errors (700-799)
	ErrCodeMarketDataParseFailed ErrorCode = 702

	// Render errors (800-899)
	ErrCodeRenderFailed ErrorCode = 800
)
