package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Plugin errors
	ErrPluginNotFound  = errors.New("plugin not found")
	ErrDuplicateName   = errors.New("a plugin with this name already exists")
	ErrCategoryInUse   = errors.New("cannot delete category with existing plugins")
	ErrCategoryMissing = errors.New("the selected category is invalid")

	// Review errors
	ErrReviewNotFound = errors.New("review not found")
	ErrSelfReview     = errors.New("you cannot review your own plugin")

	// Report errors
	ErrAlreadyReported = errors.New("you have already reported this plugin")
	ErrReportNotFound  = errors.New("report not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
