// Package store defines the capability contracts the repositories consume:
// a remote document database and a remote object (file) store. Implementations
// live in dbmongo and dbs3.
package store

import (
	"context"
	"errors"
	"io"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when a document or stored file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable wraps transport or service failures of the remote store.
	ErrUnavailable = errors.New("remote store unavailable")
)

// Document is a single record in a collection. IDs are opaque strings issued
// by the store and immutable afterwards.
type Document struct {
	ID        string
	CreatedAt time.Time
	Fields    map[string]any
}

// Filter matches a field against a value.
type Filter struct {
	Field string
	Value string
}

// ListOptions narrows and orders a List call. A zero value lists the whole
// collection in store-default order, capped to the store's default page size.
type ListOptions struct {
	Equals  []Filter
	Search  *Filter // full-text match on Field
	OrderBy string
	Desc    bool
	Limit   int64
}

type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (*Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	List(ctx context.Context, collection string, opts ListOptions) ([]*Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// Upload is a binary asset handed to an ObjectStore.
type Upload struct {
	Filename string
	MimeType string
	Content  io.Reader
}

// ObjectStore stores binary assets and derives URLs for them. Derived URLs
// keep the file id as the path segment after "files/" — ExtractFileID depends
// on that shape.
type ObjectStore interface {
	Upload(ctx context.Context, up Upload) (string, error)
	Delete(ctx context.Context, id string) error
	ViewURL(id string) string
	PreviewURL(id string, width, height int, gravity string, quality int) string
}

var fileIDPattern = regexp.MustCompile(`files/([^/?#]+)`)

// ExtractFileID pulls the stored object id out of a derived URL. Posts now
// persist their storage ids explicitly; this parser remains as the fallback
// for documents written before those fields existed.
func ExtractFileID(rawURL string) string {
	m := fileIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}
