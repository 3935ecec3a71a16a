package store

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemDocumentStore is an in-memory DocumentStore used by tests and local
// development. It mirrors the remote store's contract: opaque issued ids,
// default insertion order, no referential enforcement.
type MemDocumentStore struct {
	mu    sync.Mutex
	colls map[string][]*Document
	seq   int
}

func NewMemDocumentStore() *MemDocumentStore {
	return &MemDocumentStore{colls: make(map[string][]*Document)}
}

func (s *MemDocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	doc := &Document{
		ID: uuid.NewString(),
		// monotonic timestamps so ordering tests are deterministic
		CreatedAt: time.Unix(0, 0).Add(time.Duration(s.seq) * time.Second),
		Fields:    copyFields(fields),
	}
	s.colls[collection] = append(s.colls[collection], doc)
	return cloneDoc(doc), nil
}

func (s *MemDocumentStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.colls[collection] {
		if doc.ID == id {
			return cloneDoc(doc), nil
		}
	}
	return nil, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
}

func (s *MemDocumentStore) List(ctx context.Context, collection string, opts ListOptions) ([]*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Document
	for _, doc := range s.colls[collection] {
		if !matches(doc, opts) {
			continue
		}
		out = append(out, cloneDoc(doc))
	}

	if opts.OrderBy == "createdAt" {
		sort.SliceStable(out, func(i, j int) bool {
			if opts.Desc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.colls[collection] {
		if doc.ID == id {
			for k, v := range copyFields(fields) {
				doc.Fields[k] = v
			}
			return cloneDoc(doc), nil
		}
	}
	return nil, fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
}

func (s *MemDocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.colls[collection]
	for i, doc := range docs {
		if doc.ID == id {
			s.colls[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
}

func matches(doc *Document, opts ListOptions) bool {
	for _, f := range opts.Equals {
		v, ok := doc.Fields[f.Field].(string)
		if !ok || v != f.Value {
			return false
		}
	}
	if opts.Search != nil {
		v, ok := doc.Fields[opts.Search.Field].(string)
		if !ok || !strings.Contains(strings.ToLower(v), strings.ToLower(opts.Search.Value)) {
			return false
		}
	}
	return true
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if ss, ok := v.([]string); ok {
			v = append([]string(nil), ss...)
		}
		out[k] = v
	}
	return out
}

func cloneDoc(doc *Document) *Document {
	return &Document{ID: doc.ID, CreatedAt: doc.CreatedAt, Fields: copyFields(doc.Fields)}
}

// MemObjectStore is the in-memory ObjectStore counterpart. URLs follow the
// same files/<id> shape the real backends produce.
type MemObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	names   map[string]string
	BaseURL string
}

func NewMemObjectStore() *MemObjectStore {
	return &MemObjectStore{
		objects: make(map[string][]byte),
		names:   make(map[string]string),
		BaseURL: "mem://storage",
	}
}

func (s *MemObjectStore) Upload(ctx context.Context, up Upload) (string, error) {
	data, err := io.ReadAll(up.Content)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.objects[id] = data
	s.names[id] = up.Filename
	return id, nil
}

func (s *MemObjectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("delete object %s: %w", id, ErrNotFound)
	}
	delete(s.objects, id)
	delete(s.names, id)
	return nil
}

func (s *MemObjectStore) ViewURL(id string) string {
	return fmt.Sprintf("%s/v1/storage/files/%s/view", s.BaseURL, id)
}

func (s *MemObjectStore) PreviewURL(id string, width, height int, gravity string, quality int) string {
	return fmt.Sprintf("%s/v1/storage/files/%s/preview?width=%d&height=%d&gravity=%s&quality=%d",
		s.BaseURL, id, width, height, gravity, quality)
}

// Has reports whether an object is still stored, for tests asserting cascade
// behavior.
func (s *MemObjectStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[id]
	return ok
}
