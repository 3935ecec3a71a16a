// Package user implements registration, login and current-user lookup on top
// of the users collection.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"vidshare/internal/common"
	"vidshare/internal/post"
	"vidshare/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(ctx context.Context, email, password, username string) (*post.User, string, error)
	Login(ctx context.Context, email, password string) (*post.User, string, error)
	Current(ctx context.Context, accountID string) (*post.User, error)
}

type service struct {
	docs      store.DocumentStore
	publicURL string
}

func NewService(docs store.DocumentStore, publicURL string) Service {
	return &service{docs: docs, publicURL: publicURL}
}

func (s *service) Register(ctx context.Context, email, password, username string) (*post.User, string, error) {
	if err := common.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	existing, err := s.docs.List(ctx, post.CollectionUsers, store.ListOptions{
		Equals: []store.Filter{{Field: "email", Value: email}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}
	if len(existing) > 0 {
		return nil, "", ErrEmailTaken
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	accountID := newAccountID()
	doc, err := s.docs.Create(ctx, post.CollectionUsers, map[string]any{
		"accountId":    accountID,
		"email":        email,
		"username":     username,
		"avatar":       s.initialsAvatarURL(username),
		"passwordHash": hashed,
		"bookmarks":    []string{},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := common.GenerateToken(accountID, username)
	if err != nil {
		return nil, "", err
	}

	return post.UserFromDocument(doc), token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*post.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errors.New("email and password required")
	}

	docs, err := s.docs.List(ctx, post.CollectionUsers, store.ListOptions{
		Equals: []store.Filter{{Field: "email", Value: email}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if len(docs) == 0 {
		return nil, "", ErrInvalidCredentials
	}

	doc := docs[0]
	hash, _ := doc.Fields["passwordHash"].(string)
	if err := common.CheckPassword(password, hash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	u := post.UserFromDocument(doc)
	token, err := common.GenerateToken(u.AccountID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Current resolves the session's account id to its user document.
func (s *service) Current(ctx context.Context, accountID string) (*post.User, error) {
	docs, err := s.docs.List(ctx, post.CollectionUsers, store.ListOptions{
		Equals: []store.Filter{{Field: "accountId", Value: accountID}},
	})
	if err != nil {
		return nil, fmt.Errorf("lookup account %s: %w", accountID, err)
	}
	if len(docs) == 0 {
		return nil, post.ErrUserNotFound
	}
	return post.UserFromDocument(docs[0]), nil
}

// Account ids are issued here, separate from the document id the store
// assigns; tokens carry the account id.
func newAccountID() string {
	return uuid.NewString()
}

func (s *service) initialsAvatarURL(username string) string {
	return fmt.Sprintf("%s/v1/avatars/initials?name=%s", s.publicURL, url.QueryEscape(username))
}
