// Package post implements the data-access layer for video posts: feed,
// search, per-user bookmarks, uploads and cascading deletion. All persistence
// goes through the store contracts; there are no transactions across the two
// stores, so multi-step operations tolerate partial failure and repair stale
// bookmark references lazily on read.
package post

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vidshare/internal/common"
	"vidshare/internal/store"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrUnauthorized     = errors.New("not authorized to delete this post")
	ErrInvalidQuery     = errors.New("search query must not be empty")
	ErrInvalidAssetType = errors.New("invalid asset type")
)

// Image previews are requested with fixed transform parameters.
const (
	previewWidth   = 2000
	previewHeight  = 2000
	previewGravity = "top"
	previewQuality = 100
)

// Asset is an uploaded file: its storage id and the derived URL posts embed.
type Asset struct {
	ID  string
	URL string
}

// CreateForm carries everything needed to publish a post.
type CreateForm struct {
	Title     string
	Prompt    string
	CreatorID string
	Thumbnail store.Upload
	Video     store.Upload
}

type Repository interface {
	ListAll(ctx context.Context) ([]*Post, error)
	ListLatest(ctx context.Context, limit int) ([]*Post, error)
	ListByCreator(ctx context.Context, userID string) ([]*Post, error)
	Search(ctx context.Context, query string) ([]*Post, error)
	Bookmarked(ctx context.Context, userID string) ([]*Post, error)
	ToggleBookmark(ctx context.Context, postID, userID string) (*User, error)
	DeletePost(ctx context.Context, postID, requesterID string) error
	UploadAsset(ctx context.Context, up store.Upload, kind common.AssetKind) (*Asset, error)
	CreatePost(ctx context.Context, form CreateForm) (*Post, error)
}

type repository struct {
	docs    store.DocumentStore
	objects store.ObjectStore
}

func NewRepository(docs store.DocumentStore, objects store.ObjectStore) Repository {
	return &repository{docs: docs, objects: objects}
}

func (r *repository) ListAll(ctx context.Context) ([]*Post, error) {
	docs, err := r.docs.List(ctx, CollectionVideos, store.ListOptions{
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return r.toPosts(ctx, docs), nil
}

func (r *repository) ListLatest(ctx context.Context, limit int) ([]*Post, error) {
	if limit <= 0 {
		return []*Post{}, nil
	}
	docs, err := r.docs.List(ctx, CollectionVideos, store.ListOptions{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list latest posts: %w", err)
	}
	return r.toPosts(ctx, docs), nil
}

func (r *repository) ListByCreator(ctx context.Context, userID string) ([]*Post, error) {
	docs, err := r.docs.List(ctx, CollectionVideos, store.ListOptions{
		Equals: []store.Filter{{Field: "creator", Value: userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("list posts by creator %s: %w", userID, err)
	}
	return r.toPosts(ctx, docs), nil
}

func (r *repository) Search(ctx context.Context, query string) ([]*Post, error) {
	if query == "" {
		return nil, ErrInvalidQuery
	}
	docs, err := r.docs.List(ctx, CollectionVideos, store.ListOptions{
		Search: &store.Filter{Field: "title", Value: query},
	})
	if err != nil {
		return nil, fmt.Errorf("search posts %q: %w", query, err)
	}
	return r.toPosts(ctx, docs), nil
}

// Bookmarked fetches the user's bookmarked posts one id at a time, in
// bookmark order. Ids whose post no longer exists are pruned from the
// persisted array afterwards; transient fetch failures are skipped without
// pruning so a flaky read never permanently drops a bookmark. The cleanup
// write is best-effort: its failure does not fail the read.
func (r *repository) Bookmarked(ctx context.Context, userID string) ([]*Post, error) {
	user, err := r.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Bookmarks) == 0 {
		return []*Post{}, nil
	}

	posts := make([]*Post, 0, len(user.Bookmarks))
	var invalid []string
	memo := make(map[string]Creator)

	for _, postID := range user.Bookmarks {
		doc, err := r.docs.Get(ctx, CollectionVideos, postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				invalid = append(invalid, postID)
			} else {
				log.Printf("bookmarked: fetch post %s: %v", postID, err)
			}
			continue
		}
		posts = append(posts, r.toPost(ctx, doc, memo))
	}

	if len(invalid) > 0 {
		remaining := removeAll(user.Bookmarks, invalid)
		if _, err := r.docs.Update(ctx, CollectionUsers, user.ID, map[string]any{
			"bookmarks": remaining,
		}); err != nil {
			log.Printf("bookmarked: prune stale bookmarks for user %s: %v", user.ID, err)
		}
	}

	return posts, nil
}

// ToggleBookmark flips postID's membership in the user's bookmark list and
// persists the whole array. There is no revision token: concurrent toggles
// race and the last write wins. The returned user is re-fetched so the
// caller sees server-confirmed state.
func (r *repository) ToggleBookmark(ctx context.Context, postID, userID string) (*User, error) {
	user, err := r.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated []string
	if contains(user.Bookmarks, postID) {
		updated = removeAll(user.Bookmarks, []string{postID})
	} else {
		updated = append(append([]string(nil), user.Bookmarks...), postID)
	}

	if _, err := r.docs.Update(ctx, CollectionUsers, user.ID, map[string]any{
		"bookmarks": updated,
	}); err != nil {
		return nil, fmt.Errorf("update bookmarks for user %s: %w", user.ID, err)
	}

	return r.getUser(ctx, userID)
}

// DeletePost removes a post, its stored assets and the requester's own
// bookmark of it. Only the creator may delete. Asset deletion prefers the
// explicit storage ids and falls back to parsing the URLs for documents
// written before those fields existed. Both assets are attempted even if the
// first fails; a failure (other than the asset already being gone) is
// returned after both attempts, before the document is touched. Other users'
// bookmarks of the post are left to Bookmarked's lazy repair.
func (r *repository) DeletePost(ctx context.Context, postID, requesterID string) error {
	user, err := r.getUser(ctx, requesterID)
	if err != nil {
		return err
	}

	doc, err := r.docs.Get(ctx, CollectionVideos, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post %s: %w", postID, err)
	}

	if fieldString(doc.Fields, "creator") != user.ID {
		return ErrUnauthorized
	}

	thumbnailID := fieldString(doc.Fields, "thumbnailId")
	if thumbnailID == "" {
		thumbnailID = store.ExtractFileID(fieldString(doc.Fields, "thumbnail"))
	}
	videoID := fieldString(doc.Fields, "videoId")
	if videoID == "" {
		videoID = store.ExtractFileID(fieldString(doc.Fields, "video"))
	}

	var assetErr error
	for _, id := range []string{thumbnailID, videoID} {
		if id == "" {
			continue
		}
		if err := r.objects.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// already gone, which is what we wanted
				log.Printf("delete post %s: asset %s already removed", postID, id)
				continue
			}
			log.Printf("delete post %s: remove asset %s: %v", postID, id, err)
			if assetErr == nil {
				assetErr = err
			}
		}
	}
	if assetErr != nil {
		return fmt.Errorf("delete post %s assets: %w", postID, assetErr)
	}

	if err := r.docs.Delete(ctx, CollectionVideos, postID); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}

	if contains(user.Bookmarks, postID) {
		remaining := removeAll(user.Bookmarks, []string{postID})
		if _, err := r.docs.Update(ctx, CollectionUsers, user.ID, map[string]any{
			"bookmarks": remaining,
		}); err != nil {
			log.Printf("delete post %s: prune bookmark for user %s: %v", postID, user.ID, err)
		}
	}

	return nil
}

// UploadAsset stores the file and derives the URL a post will embed: a plain
// view URL for videos, a fixed-parameter preview URL for images.
func (r *repository) UploadAsset(ctx context.Context, up store.Upload, kind common.AssetKind) (*Asset, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidAssetType
	}

	id, err := r.objects.Upload(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("upload %s asset: %w", kind, err)
	}

	asset := &Asset{ID: id}
	switch kind {
	case common.AssetKindVideo:
		asset.URL = r.objects.ViewURL(id)
	case common.AssetKindImage:
		asset.URL = r.objects.PreviewURL(id, previewWidth, previewHeight, previewGravity, previewQuality)
	}
	return asset, nil
}

// CreatePost uploads thumbnail and video concurrently, then creates the
// document referencing both. If either upload fails nothing is persisted to
// the document store.
func (r *repository) CreatePost(ctx context.Context, form CreateForm) (*Post, error) {
	type uploadResult struct {
		kind  common.AssetKind
		asset *Asset
		err   error
	}

	results := make(chan uploadResult, 2)
	go func() {
		a, err := r.UploadAsset(ctx, form.Thumbnail, common.AssetKindImage)
		results <- uploadResult{common.AssetKindImage, a, err}
	}()
	go func() {
		a, err := r.UploadAsset(ctx, form.Video, common.AssetKindVideo)
		results <- uploadResult{common.AssetKindVideo, a, err}
	}()

	var thumbnail, video *Asset
	var firstErr error
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		if res.kind == common.AssetKindImage {
			thumbnail = res.asset
		} else {
			video = res.asset
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("create post: %w", firstErr)
	}

	doc, err := r.docs.Create(ctx, CollectionVideos, map[string]any{
		"title":       form.Title,
		"prompt":      form.Prompt,
		"thumbnail":   thumbnail.URL,
		"video":       video.URL,
		"thumbnailId": thumbnail.ID,
		"videoId":     video.ID,
		"creator":     form.CreatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("create post document: %w", err)
	}

	return r.toPost(ctx, doc, make(map[string]Creator)), nil
}

func (r *repository) getUser(ctx context.Context, userID string) (*User, error) {
	doc, err := r.docs.Get(ctx, CollectionUsers, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return UserFromDocument(doc), nil
}

func (r *repository) toPosts(ctx context.Context, docs []*store.Document) []*Post {
	memo := make(map[string]Creator)
	posts := make([]*Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, r.toPost(ctx, doc, memo))
	}
	return posts
}

// toPost resolves the post's creator to a snapshot, memoized per call. A
// creator that cannot be resolved leaves a zero snapshot rather than failing
// the read.
func (r *repository) toPost(ctx context.Context, doc *store.Document, memo map[string]Creator) *Post {
	creatorID := fieldString(doc.Fields, "creator")
	creator, ok := memo[creatorID]
	if !ok && creatorID != "" {
		if udoc, err := r.docs.Get(ctx, CollectionUsers, creatorID); err != nil {
			log.Printf("post %s: resolve creator %s: %v", doc.ID, creatorID, err)
		} else {
			u := UserFromDocument(udoc)
			creator = Creator{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
		}
		memo[creatorID] = creator
	}
	return PostFromDocument(doc, creator)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// removeAll filters drop out of ids, preserving the order of the remainder.
func removeAll(ids []string, drop []string) []string {
	dropSet := make(map[string]struct{}, len(drop))
	for _, id := range drop {
		dropSet[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, gone := dropSet[id]; !gone {
			out = append(out, id)
		}
	}
	return out
}
