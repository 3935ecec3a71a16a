// Package media serves stored files and generated avatars over HTTP. The
// transform parameters accepted on /preview exist for URL compatibility with
// the derived preview URLs; the original bytes are streamed either way.
package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"vidshare/internal/dbmongo"
	"vidshare/internal/store"
)

type HTTPServer struct {
	storage *dbmongo.ObjectStore
}

func NewHTTPServer(storage *dbmongo.ObjectStore) *HTTPServer {
	return &HTTPServer{storage: storage}
}

func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/v1/storage/files/{fileId}/view", s.serveFile).Methods("GET")
	router.HandleFunc("/v1/storage/files/{fileId}/preview", s.serveFile).Methods("GET")
	router.HandleFunc("/v1/avatars/initials", s.serveInitialsAvatar).Methods("GET")
	router.HandleFunc("/health", s.health).Methods("GET")

	return router
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router().ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, info, err := s.storage.Download(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		log.Printf("media: download %s: %v", fileID, err)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
		return
	}
	defer reader.Close()

	contentType := info.MimeType
	if contentType == "" {
		contentType = contentTypeByName(info.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size))

	if _, err := io.Copy(w, reader); err != nil {
		log.Printf("media: stream %s: %v", fileID, err)
	}
}

func contentTypeByName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("media server is healthy"))
}
