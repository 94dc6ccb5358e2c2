package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	otperrors "slotbook/internal/otp/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "OtpChallenges"
)

type mongoOtpRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type OtpRepository interface {
	Upsert(ctx context.Context, challenge *model.OtpChallenge) error
	FindByEmail(ctx context.Context, email string) (*model.OtpChallenge, error)
	Delete(ctx context.Context, email string) error
}

func NewMongoOtpRepository(cfg *config.Config) OtpRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOtpRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOtpRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Upsert stores the challenge keyed by email. A new code for the same
// address replaces the old one, so only the latest code can verify.
func (r *mongoOtpRepository) Upsert(ctx context.Context, challenge *model.OtpChallenge) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": challenge.Email}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, challenge, opts); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}

	return nil
}

func (r *mongoOtpRepository) FindByEmail(ctx context.Context, email string) (*model.OtpChallenge, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"_id": email}

	var challenge model.OtpChallenge
	err := r.collection.FindOne(ctx, filter).Decode(&challenge)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, otperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find otp challenge: %w", err)
	}

	return &challenge, nil
}

func (r *mongoOtpRepository) Delete(ctx context.Context, email string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
		return fmt.Errorf("failed to delete otp challenge: %w", err)
	}

	return nil
}
