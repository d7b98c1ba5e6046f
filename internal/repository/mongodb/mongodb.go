// Package mongodb stores users as documents keyed by username, with the
// analysis history embedded newest-first:
//
//	{ _id: "alice", password: "<bcrypt>", history: [{date, type, input, response}, ...], created_at: ISODate }
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// DB owns the client connection and the users collection.
type DB struct {
	client *mongo.Client
	users  *UserRepository
}

var _ domain.Database = (*DB)(nil)

// New connects to the deployment at uri and verifies it with a ping.
func New(ctx context.Context, uri, database, collection string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &DB{
		client: client,
		users:  NewUserRepository(client.Database(database).Collection(collection)),
	}, nil
}

// Migrate is a no-op: documents are keyed by _id, which MongoDB indexes
// uniquely on every collection.
func (d *DB) Migrate(ctx context.Context) error {
	return nil
}

// Ping checks the primary is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Users returns the user repository.
func (d *DB) Users() domain.UserRepository {
	return d.users
}

// Close disconnects the client.
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}
