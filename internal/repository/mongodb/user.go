package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	Username  string            `bson:"_id"`
	Password  string            `bson:"password"`
	History   []historyDocument `bson:"history"`
	CreatedAt time.Time         `bson:"created_at,omitempty"`
}

type historyDocument struct {
	Date     string `bson:"date"`
	Type     string `bson:"type"`
	Input    string `bson:"input"`
	Response string `bson:"response"`
}

func toHistoryDocument(e domain.HistoryEntry) historyDocument {
	return historyDocument{
		Date:     e.Date.Format(domain.HistoryDateLayout),
		Type:     e.Type,
		Input:    e.Input,
		Response: e.Response,
	}
}

func (d historyDocument) toDomain() (domain.HistoryEntry, error) {
	date, err := time.ParseInLocation(domain.HistoryDateLayout, d.Date, time.Local)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("parse history date %q: %w", d.Date, err)
	}
	return domain.HistoryEntry{Date: date, Type: d.Type, Input: d.Input, Response: d.Response}, nil
}

// UserRepository implements domain.UserRepository on a single collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a repository over the given collection.
func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// Create inserts a new user document. The _id unique index decides the
// winner of concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		Username:  user.Username,
		Password:  user.PasswordHash,
		History:   []historyDocument{},
		CreatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = now
	user.History = []domain.HistoryEntry{}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	history, err := decodeHistory(doc.History)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Username:     doc.Username,
		PasswordHash: doc.Password,
		History:      history,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// AppendHistory prepends the entry with a single $push, so concurrent
// appends for the same user never overwrite each other.
func (r *UserRepository) AppendHistory(ctx context.Context, username string, entry domain.HistoryEntry) error {
	update := bson.M{
		"$push": bson.M{
			"history": bson.M{
				"$each":     bson.A{toHistoryDocument(entry)},
				"$position": 0,
			},
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": username}, update)
	if err != nil {
		return fmt.Errorf("push history entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("append history for %q: %w", username, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	var doc userDocument
	opts := options.FindOne().SetProjection(bson.M{"history": 1})
	if err := r.coll.FindOne(ctx, bson.M{"_id": username}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("find history: %w", err)
	}
	return decodeHistory(doc.History)
}

func decodeHistory(docs []historyDocument) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
