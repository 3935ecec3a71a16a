package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidshare/internal/store"
)

// ObjectStore implements store.ObjectStore on a GridFS bucket. Derived URLs
// point at the media server and keep the file id after "files/", which the
// legacy URL parser depends on.
type ObjectStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewObjectStore(mc *MongoClient, publicURL string) *ObjectStore {
	return &ObjectStore{bucket: mc.GridFS, baseURL: publicURL}
}

// FileInfo describes a stored file for the media server.
type FileInfo struct {
	ID       string
	Filename string
	Size     int64
	MimeType string
}

func (o *ObjectStore) Upload(ctx context.Context, up store.Upload) (string, error) {
	id := uuid.NewString()
	opts := options.GridFSUpload().SetMetadata(bson.M{"mime_type": up.MimeType})

	stream, err := o.bucket.OpenUploadStreamWithID(id, up.Filename, opts)
	if err != nil {
		return "", fmt.Errorf("upload: %w: %v", store.ErrUnavailable, err)
	}
	defer stream.Close()

	if _, err := io.Copy(stream, up.Content); err != nil {
		return "", fmt.Errorf("upload copy: %w: %v", store.ErrUnavailable, err)
	}
	return id, nil
}

func (o *ObjectStore) Delete(ctx context.Context, id string) error {
	if err := o.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete file %s: %w", id, store.ErrNotFound)
		}
		return fmt.Errorf("delete file %s: %w: %v", id, store.ErrUnavailable, err)
	}
	return nil
}

// Download opens a read stream for the media server.
func (o *ObjectStore) Download(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	stream, err := o.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, fmt.Errorf("download file %s: %w", id, store.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("download file %s: %w: %v", id, store.ErrUnavailable, err)
	}

	file := stream.GetFile()
	var metadata bson.M
	if file.Metadata != nil {
		_ = bson.Unmarshal(file.Metadata, &metadata)
	}
	mime, _ := metadata["mime_type"].(string)

	return stream, &FileInfo{
		ID:       id,
		Filename: file.Name,
		Size:     file.Length,
		MimeType: mime,
	}, nil
}

func (o *ObjectStore) ViewURL(id string) string {
	return fmt.Sprintf("%s/v1/storage/files/%s/view", o.baseURL, id)
}

func (o *ObjectStore) PreviewURL(id string, width, height int, gravity string, quality int) string {
	params := url.Values{}
	params.Set("width", strconv.Itoa(width))
	params.Set("height", strconv.Itoa(height))
	params.Set("gravity", gravity)
	params.Set("quality", strconv.Itoa(quality))
	return fmt.Sprintf("%s/v1/storage/files/%s/preview?%s", o.baseURL, id, params.Encode())
}
