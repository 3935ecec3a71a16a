package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidshare/internal/store"
)

// DocumentStore implements store.DocumentStore on Mongo collections.
// Documents carry a store-issued uuid string as _id and a createdAt
// timestamp set at insert time.
type DocumentStore struct {
	db *mongo.Database
}

func NewDocumentStore(mc *MongoClient) *DocumentStore {
	return &DocumentStore{db: mc.Database}
}

func (s *DocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (*store.Document, error) {
	raw := bson.M{}
	for k, v := range fields {
		raw[k] = v
	}
	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raw["_id"] = id
	raw["createdAt"] = now

	if _, err := s.db.Collection(collection).InsertOne(ctx, raw); err != nil {
		return nil, remoteErr("create document", err)
	}
	return decodeDocument(raw)
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		return nil, remoteErr("get document", err)
	}
	return decodeDocument(raw)
}

func (s *DocumentStore) List(ctx context.Context, collection string, opts store.ListOptions) ([]*store.Document, error) {
	filter := bson.M{}
	for _, f := range opts.Equals {
		filter[f.Field] = f.Value
	}
	if opts.Search != nil {
		filter[opts.Search.Field] = bson.M{
			"$regex":   regexp.QuoteMeta(opts.Search.Value),
			"$options": "i",
		}
	}

	findOpts := options.Find()
	if opts.OrderBy != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.OrderBy, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, remoteErr("list documents", err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, remoteErr("decode documents", err)
	}

	docs := make([]*store.Document, 0, len(raws))
	for _, raw := range raws {
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (*store.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if err != nil {
		return nil, remoteErr("update document", err)
	}
	return decodeDocument(raw)
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return remoteErr("delete document", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, store.ErrNotFound)
	}
	return nil
}

func decodeDocument(raw bson.M) (*store.Document, error) {
	doc := &store.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "_id":
			id, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("document has non-string _id %v", v)
			}
			doc.ID = id
		case "createdAt":
			doc.CreatedAt = asTime(v)
		default:
			doc.Fields[k] = normalize(v)
		}
	}
	return doc, nil
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}

// normalize converts driver-specific container types into plain Go values so
// callers never see bson primitives.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}

func remoteErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
