package post

import (
	"time"

	"vidshare/internal/store"
)

// Collection names in the document store.
const (
	CollectionUsers  = "users"
	CollectionVideos = "videos"
)

// User mirrors a document in the users collection. Bookmarks is a
// denormalized list of video ids owned by this user; the store does not
// enforce that they still exist.
type User struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	Bookmarks []string  `json:"bookmarks"`
	CreatedAt time.Time `json:"createdAt"`
}

// Creator is the post-embedded snapshot of its owner.
type Creator struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// Post mirrors a document in the videos collection. ThumbnailID/VideoID are
// the explicit storage ids written at create time; older documents only have
// the ids embedded in the URLs.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Prompt       string    `json:"prompt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailID  string    `json:"-"`
	VideoID      string    `json:"-"`
	Creator      Creator   `json:"creator"`
	CreatedAt    time.Time `json:"createdAt"`
}

func UserFromDocument(doc *store.Document) *User {
	return &User{
		ID:        doc.ID,
		AccountID: fieldString(doc.Fields, "accountId"),
		Email:     fieldString(doc.Fields, "email"),
		Username:  fieldString(doc.Fields, "username"),
		AvatarURL: fieldString(doc.Fields, "avatar"),
		Bookmarks: fieldStrings(doc.Fields, "bookmarks"),
		CreatedAt: doc.CreatedAt,
	}
}

func PostFromDocument(doc *store.Document, creator Creator) *Post {
	return &Post{
		ID:           doc.ID,
		Title:        fieldString(doc.Fields, "title"),
		Prompt:       fieldString(doc.Fields, "prompt"),
		ThumbnailURL: fieldString(doc.Fields, "thumbnail"),
		VideoURL:     fieldString(doc.Fields, "video"),
		ThumbnailID:  fieldString(doc.Fields, "thumbnailId"),
		VideoID:      fieldString(doc.Fields, "videoId"),
		Creator:      creator,
		CreatedAt:    doc.CreatedAt,
	}
}

func fieldString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// fieldStrings reads a string array field regardless of whether the store
// returned it as []string or []any. A missing field reads as empty, never
// nil, so it serializes as [].
func fieldStrings(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
