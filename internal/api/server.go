// Package api exposes the repository over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"vidshare/internal/common"
	"vidshare/internal/post"
	"vidshare/internal/store"
	"vidshare/internal/user"
)

type Server struct {
	posts post.Repository
	users user.Service
}

func NewServer(posts post.Repository, users user.Service) *Server {
	return &Server{posts: posts, users: users}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/v1/auth/register", s.register).Methods("POST")
	router.HandleFunc("/v1/auth/login", s.login).Methods("POST")
	router.HandleFunc("/health", s.health).Methods("GET")

	authed := router.PathPrefix("/v1").Subrouter()
	authed.Use(common.AuthMiddleware)
	authed.HandleFunc("/posts", s.feed).Methods("GET")
	authed.HandleFunc("/posts", s.createPost).Methods("POST")
	authed.HandleFunc("/posts/latest", s.latest).Methods("GET")
	authed.HandleFunc("/posts/search", s.search).Methods("GET")
	authed.HandleFunc("/posts/{id}", s.deletePost).Methods("DELETE")
	authed.HandleFunc("/users/{id}/posts", s.userPosts).Methods("GET")
	authed.HandleFunc("/bookmarks", s.bookmarks).Methods("GET")
	authed.HandleFunc("/bookmarks/{postId}", s.toggleBookmark).Methods("POST")

	return router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router().ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentUser resolves the authenticated session to its user document.
func (s *Server) currentUser(r *http.Request) (*post.User, error) {
	session, ok := common.SessionFromContext(r.Context())
	if !ok {
		return nil, post.ErrUserNotFound
	}
	return s.users.Current(r.Context(), session.AccountID)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the repository's error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, post.ErrInvalidQuery), errors.Is(err, post.ErrInvalidAssetType):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, post.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, post.ErrUserNotFound), errors.Is(err, post.ErrPostNotFound),
		errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		log.Printf("api: remote store failure: %v", err)
		respondError(w, http.StatusBadGateway, "remote store unavailable")
	default:
		log.Printf("api: internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
