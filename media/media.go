// Package media resolves opaque stored image references into servable URLs.
// The core never interprets image bytes; uploads live behind the CDN.
package media

import (
	"os"
	"strings"
)

// ResolveURL turns a stored reference into a URL the client can fetch.
// Absolute references pass through untouched; everything else is joined onto
// MEDIA_BASE_URL.
func ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base := os.Getenv("MEDIA_BASE_URL")
	if base == "" {
		base = "https://res.cloudinary.com/restaurant"
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
