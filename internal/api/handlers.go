package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vidshare/internal/common"
	"vidshare/internal/post"
	"vidshare/internal/store"
	"vidshare/internal/user"
)

// defaultLatestLimit caps the trending view when no limit is requested.
const defaultLatestLimit = 7

const maxUploadBytes = 256 << 20

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *post.User `json:"user"`
	Token string     `json:"token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := s.users.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, store.ErrUnavailable):
			writeError(w, err)
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{User: u, Token: token})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, store.ErrUnavailable):
			writeError(w, err)
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	limit := defaultLatestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	posts, err := s.posts.ListLatest(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) userPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListByCreator(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) bookmarks(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := s.posts.Bookmarked(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.posts.ToggleBookmark(r.Context(), mux.Vars(r)["postId"], u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if common.DetectAssetKind(thumbnail.MimeType) != common.AssetKindImage {
		respondError(w, http.StatusBadRequest, "thumbnail must be an image")
		return
	}
	video, err := formUpload(r, "video")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if common.DetectAssetKind(video.MimeType) != common.AssetKindVideo {
		respondError(w, http.StatusBadRequest, "video must be a video file")
		return
	}

	created, err := s.posts.CreatePost(r.Context(), post.CreateForm{
		Title:     title,
		Prompt:    r.FormValue("prompt"),
		CreatorID: u.ID,
		Thumbnail: thumbnail,
		Video:     video,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.posts.DeletePost(r.Context(), mux.Vars(r)["id"], u.ID); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func formUpload(r *http.Request, field string) (store.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return store.Upload{}, errors.New(field + " file is required")
	}
	return store.Upload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	}, nil
}
