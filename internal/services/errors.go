package services

import "errors"

// Attendance service errors
var (
	// Input errors
	ErrInvalidLayout = errors.New("invalid layout")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidRange  = errors.New("invalid trend range")

	// Session errors
	ErrNoSession = errors.New("no dataset loaded")
)
