package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userSequence       = "users"
)

// UserRepository implements ports.UserRepository using MongoDB. User ids are
// integers drawn from a sequence document in the counters collection.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID                  int64     `bson:"_id"`
	Email               string    `bson:"email"`
	DisplayName         string    `bson:"display_name"`
	PasswordHash        string    `bson:"password_hash"`
	Role                string    `bson:"role"`
	IsActive            bool      `bson:"is_active"`
	CredentialChangedAt time.Time `bson:"credential_changed_at"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := fromDomain(user)
	doc.ID = id
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return toDomain(doc)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error {
	return r.update(ctx, id, bson.M{
		"password_hash":         hash,
		"credential_changed_at": changedAt.UTC(),
		"updated_at":            time.Now().UTC(),
	})
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(ctx, id, bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(&mu)
}

func (r *UserRepository) update(ctx context.Context, id int64, set bson.M) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func fromDomain(u *domain.User) *mongoUser {
	return &mongoUser{
		ID:                  u.ID,
		Email:               u.Email,
		DisplayName:         u.DisplayName,
		PasswordHash:        u.PasswordHash,
		Role:                u.Role.String(),
		IsActive:            u.IsActive,
		CredentialChangedAt: u.CredentialChangedAt.UTC(),
		CreatedAt:           u.CreatedAt.UTC(),
		UpdatedAt:           u.UpdatedAt.UTC(),
	}
}

func toDomain(mu *mongoUser) (*domain.User, error) {
	role, err := domain.ParseRole(mu.Role)
	if err != nil {
		return nil, fmt.Errorf("decode user %d: %w", mu.ID, err)
	}
	return &domain.User{
		ID:                  mu.ID,
		Email:               mu.Email,
		DisplayName:         mu.DisplayName,
		PasswordHash:        mu.PasswordHash,
		Role:                role,
		IsActive:            mu.IsActive,
		CredentialChangedAt: mu.CredentialChangedAt.UTC(),
		CreatedAt:           mu.CreatedAt.UTC(),
		UpdatedAt:           mu.UpdatedAt.UTC(),
	}, nil
}
