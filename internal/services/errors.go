package services

import "errors"

var (
	// ErrNoTags is returned when a search is requested without any usable tag
	ErrNoTags = errors.New("no valid tags")
	// ErrSearchFailed is returned when the tag match query could not be executed
	ErrSearchFailed = errors.New("search failed")
	// ErrNoResults is returned when a search resolved zero media items
	ErrNoResults = errors.New("no results")
	// ErrInvalidRating is returned for rating values outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidRatingInput is returned when rating input is neither a number nor "skip"
	ErrInvalidRatingInput = errors.New("rating must be a number (1-5) or 'skip'")
	// ErrInvalidCredentials is returned when a username or password does not match
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ErrMissingCredentials is returned when registering a user without a username or password
var ErrMissingCredentials = errors.New("username and password are required")
