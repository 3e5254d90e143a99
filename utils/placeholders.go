package utils

import "strings"

// TextOr returns value, or fallback when value is blank
func TextOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// FirstPhotoOr returns the first non-blank photo URL, or fallback
func FirstPhotoOr(photos []string, fallback string) string {
	for _, photo := range photos {
		if strings.TrimSpace(photo) != "" {
			return photo
		}
	}
	return fallback
}
