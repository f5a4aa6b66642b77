// Package mongodb implements the persistence gateway on MongoDB, using the
// `users` and `visitor_requests` collections of one database.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DefaultDatabase is the database used when none is configured.
const DefaultDatabase = "visitor_app_db"

const (
	usersCollection    = "users"
	requestsCollection = "visitor_requests"
)

// DB is a connected MongoDB database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection, and selects database name.
func Connect(ctx context.Context, uri, name string) (*DB, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection string is required")
	}
	if name == "" {
		name = DefaultDatabase
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			return nil, fmt.Errorf("pinging mongo: %w (also failed to disconnect: %v)", err, derr)
		}
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return &DB{client: client, db: client.Database(name)}, nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
// A users collection seeded with duplicate usernames keeps working without the
// unique index.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err := usersIndexErr(ctx, err); err != nil {
		return err
	}

	if _, err := d.db.Collection(requestsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requested_by", Value: 1}},
	}); err != nil {
		return fmt.Errorf("creating visitor_requests index: %w", err)
	}

	return nil
}

// usersIndexErr lets a duplicate-key failure of the unique username index
// through with a warning. Any other error is returned.
func usersIndexErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		slog.WarnContext(ctx, "users collection has duplicate usernames; skipping unique index", "error", err)
		return nil
	}
	return fmt.Errorf("creating users index: %w", err)
}

// Users returns the users repository.
func (d *DB) Users() *UserRepository {
	return NewUserRepository(d.db.Collection(usersCollection))
}

// Requests returns the visitor requests repository.
func (d *DB) Requests() *RequestRepository {
	return NewRequestRepository(d.db.Collection(requestsCollection))
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongo: %w", err)
	}
	return nil
}
