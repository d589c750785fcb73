package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("Invalid login credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrRateLimited        = fmt.Errorf("too many requests")

	// Lookup errors
	ErrVideoNotFound   = fmt.Errorf("video not found")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrDuplicateEmail  = fmt.Errorf("email already registered")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUnsupportedURL     = fmt.Errorf("unsupported video URL")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
