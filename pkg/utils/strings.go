package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
	nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SafeFilename slugs the base name of an uploaded file and keeps its extension
func SafeFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if base == "" {
		base = "file"
	}
	return base + ext
}

// InvoiceFilename builds "<name>-YYYYMMDD-HHMM.pdf" where name is the sender
// name with every non-word character removed, lower-cased
func InvoiceFilename(senderName string, at time.Time) string {
	slug := strings.ToLower(nonWordChars.ReplaceAllString(senderName, ""))
	if slug == "" {
		slug = "invoice"
	}
	return slug + "-" + at.Format("20060102-1504") + ".pdf"
}
