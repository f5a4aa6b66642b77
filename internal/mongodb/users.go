package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/evcraddock/visitor-pass/internal/user"
)

type userDoc struct {
	Username string `bson:"username"`
	Password string `bson:"password"`
	Role     string `bson:"role"`
}

func (d userDoc) toUser() *user.User {
	return &user.User{Username: d.Username, Password: d.Password, Role: user.Role(d.Role)}
}

// UserRepository implements user.Store on a MongoDB collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository wraps a users collection.
func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// FindByCredentials implements user.Store.
func (r *UserRepository) FindByCredentials(ctx context.Context, username, password string) (*user.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.D{
		{Key: "username", Value: username},
		{Key: "password", Value: password},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return doc.toUser(), nil
}

// Add implements user.Store.
func (r *UserRepository) Add(ctx context.Context, u *user.User) error {
	if err := user.Validate(u); err != nil {
		return err
	}

	doc := userDoc{Username: u.Username, Password: u.Password, Role: string(u.Role)}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user already exists: %s", u.Username)
		}
		return fmt.Errorf("adding user: %w", err)
	}
	return nil
}

// List implements user.Store.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	users := make([]*user.User, len(docs))
	for i, d := range docs {
		users[i] = d.toUser()
	}
	return users, nil
}
