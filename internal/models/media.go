package models

import "strings"

// MediaType represents one of the fixed catalog tables
type MediaType string

const (
	MediaTypeImage MediaType = "Image"
	MediaTypeAudio MediaType = "Audio"
	MediaTypeVideo MediaType = "Video"
)

// MediaTypes lists all known media types in display order
var MediaTypes = []MediaType{MediaTypeImage, MediaTypeAudio, MediaTypeVideo}

// ParseMediaType converts a case-insensitive name into a MediaType.
// The second return value is false for anything outside the closed set.
func ParseMediaType(s string) (MediaType, bool) {
	for _, mt := range MediaTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(mt)) {
			return mt, true
		}
	}
	return "", false
}

// IsValid reports whether the media type is one of the known types
func (t MediaType) IsValid() bool {
	switch t {
	case MediaTypeImage, MediaTypeAudio, MediaTypeVideo:
		return true
	}
	return false
}

// MediaRef identifies a single media item across the three catalog tables
type MediaRef struct {
	ID   int       `json:"id"`
	Type MediaType `json:"type"`
}

// MediaItem represents a resolved media item ready for display
//
// Exactly one of Resolution (images) or Duration (audio and video) is set.
type MediaItem struct {
	ID           int       `json:"id"`
	Type         MediaType `json:"type"`
	Title        string    `json:"title"`
	FilePath     string    `json:"filePath"`
	AbsolutePath string    `json:"absolutePath"`
	Resolution   string    `json:"resolution,omitempty"`
	Duration     string    `json:"duration,omitempty"`
}

// Ref returns the identity of the item
func (m *MediaItem) Ref() MediaRef {
	return MediaRef{ID: m.ID, Type: m.Type}
}

// MetricLabel returns the display label of the type-specific metric
func (m *MediaItem) MetricLabel() string {
	if m.Type == MediaTypeImage {
		return "RESOLUTION"
	}
	return "DURATION"
}

// Metric returns the value of the type-specific metric
func (m *MediaItem) Metric() string {
	if m.Type == MediaTypeImage {
		return m.Resolution
	}
	return m.Duration
}
