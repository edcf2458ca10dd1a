package models

import "errors"

var (
	// ErrMediaNotFound is returned when a catalog row does not exist for a media reference
	ErrMediaNotFound = errors.New("media not found")
	// ErrUnknownMediaType is returned for media types outside the fixed catalog tables
	ErrUnknownMediaType = errors.New("unknown media type")
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when creating a user whose username is taken
	ErrDuplicateUsername = errors.New("username already exists")
)
