package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityerrors "slotbook/internal/availability/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability"
)

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type AvailabilityRepository interface {
	Upsert(ctx context.Context, window *model.AvailabilityWindow) error
	FindByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error)
	FindAll(ctx context.Context) ([]*model.AvailabilityWindow, error)
	FindDatesFrom(ctx context.Context, fromDate string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Upsert replaces the window for the date if one exists, so re-posting a
// date adjusts its hours instead of stacking a second window.
func (r *mongoAvailabilityRepository) Upsert(ctx context.Context, window *model.AvailabilityWindow) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"date": window.Date}
	update := bson.M{
		"$set": bson.M{
			"date":       window.Date,
			"start_time": window.StartTime,
			"end_time":   window.EndTime,
			"duration":   window.Duration,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert availability window: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		window.ID = oid.Hex()
		return nil
	}

	// Updated an existing document; fetch its ID for the response.
	var existing model.AvailabilityWindow
	if err := r.collection.FindOne(ctx, filter).Decode(&existing); err == nil {
		window.ID = existing.ID
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": date}

	var window model.AvailabilityWindow
	err := r.collection.FindOne(ctx, filter).Decode(&window)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability window: %w", err)
	}

	return &window, nil
}

func (r *mongoAvailabilityRepository) FindAll(ctx context.Context) ([]*model.AvailabilityWindow, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []*model.AvailabilityWindow
	if err = cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode availability windows: %w", err)
	}

	return windows, nil
}

// FindDatesFrom returns the distinct dates with a window on or after
// fromDate, ascending. Dates sort lexicographically in YYYY-MM-DD form.
func (r *mongoAvailabilityRepository) FindDatesFrom(ctx context.Context, fromDate string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": fromDate}}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetProjection(bson.M{"date": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability dates: %w", err)
	}
	defer cursor.Close(ctx)

	var dates []string
	seen := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			Date string `bson:"date"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode availability date: %w", err)
		}
		if _, ok := seen[doc.Date]; ok {
			continue
		}
		seen[doc.Date] = struct{}{}
		dates = append(dates, doc.Date)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability dates: %w", err)
	}

	return dates, nil
}

func (r *mongoAvailabilityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}

	if result.DeletedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}
