// Package entity defines the entities and errors used in the application.
// It includes the ShortLink struct, which maps a unique short name to a target
// URL together with its access statistics, and the paging types used to list links.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrLinkNameExists is returned when a short link name is already taken by another link.
	ErrLinkNameExists = errors.New("link name exists")
	// ErrLinkNotFound is returned when no short link matches the given id or name.
	ErrLinkNotFound = errors.New("link not found")
)

const (
	// DefaultPageSize is used when a listing request does not specify a page size.
	DefaultPageSize = 20
	// MaxPageSize is the largest page a listing request may ask for.
	MaxPageSize = 100
)

// ShortLink represents a short name pointing to a target URL.
type ShortLink struct {
	ID          uuid.UUID // ID is the immutable identifier of the link.
	Name        string    // Name is the unique slug used in the public short URL.
	URL         string    // URL is the target address the name resolves to.
	AccessCount int64     // AccessCount is the number of successful resolutions.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
}

// ListParams describes a filtered, paginated listing of short links.
type ListParams struct {
	Search   string // Search is a case-insensitive substring of the link name.
	Page     int    // Page is 1-based.
	PageSize int
}

// Offset returns the number of rows skipped before the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// LinkPage is a single page of short links.
type LinkPage struct {
	Links    []ShortLink
	Total    int64 // Total is the number of links matching the search, across all pages.
	Page     int
	PageSize int
}

// ExportRow is the projection of a short link written to export files.
type ExportRow struct {
	Name        string
	URL         string
	CreatedAt   time.Time
	AccessCount int64
}
