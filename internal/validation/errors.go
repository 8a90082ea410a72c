package validation

import "errors"

var (
	ErrEmptyURL            = errors.New("url is required")
	ErrInvalidURLFormat    = errors.New("invalid url format")
	ErrUnsafeProtocol      = errors.New("url protocol not allowed")
	ErrURLTooLong          = errors.New("url exceeds maximum length")
	ErrPrivateIPNotAllowed = errors.New("private ip addresses not allowed")
	ErrSlugTooShort        = errors.New("slug must be at least 4 characters")
	ErrSlugTooLong         = errors.New("slug must be at most 64 characters")
	ErrSlugInvalidChars    = errors.New("slug contains invalid characters")
	ErrExpiryInPast        = errors.New("expiration date must be in the future")
	ErrMaxClicksInvalid    = errors.New("max clicks must be a positive number")
)
