package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "restobook/internal/bookings/errors"
	"restobook/pkg/config"
	"restobook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldID           = "_id"
	fieldStatus       = "status"
	fieldRestaurantID = "restaurantId"
	fieldCreatedBy    = "created_by"
	fieldStartFrom    = "reservationDate.startFrom"
	fieldTo           = "reservationDate.to"
	fieldUpdatedBy    = "updated_by"
	fieldUpdatedWhen  = "updated_when"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindActiveByRestaurant(ctx context.Context, restaurantID string) ([]*model.Booking, error)
	FindActiveByCreator(ctx context.Context, userID string) ([]*model.Booking, error)
	FindActiveByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveByReservationDate(ctx context.Context, startFrom, to time.Time) ([]*model.Booking, error)
	// FindByID ignores the active flag. Used to explain why a filtered write matched nothing.
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	UpdateActive(ctx context.Context, id string, update *model.BookingUpdate) (*mongo.UpdateResult, error)
	Deactivate(ctx context.Context, id string, userID string, when model.DateStamp) (*mongo.UpdateResult, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(cfg.MongoCollectionName),
	}
}

// withTimeout never extends a deadline the caller already set.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func activeFilter(extra bson.M) bson.M {
	filter := bson.M{fieldStatus: model.StatusActive}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindActiveByRestaurant(ctx context.Context, restaurantID string) ([]*model.Booking, error) {
	return r.findMany(ctx, activeFilter(bson.M{fieldRestaurantID: restaurantID}))
}

func (r *mongoBookingRepository) FindActiveByCreator(ctx context.Context, userID string) ([]*model.Booking, error) {
	return r.findMany(ctx, activeFilter(bson.M{fieldCreatedBy: userID}))
}

// FindActiveByReservationDate matches on either boundary exactly, it is not an overlap search.
func (r *mongoBookingRepository) FindActiveByReservationDate(ctx context.Context, startFrom, to time.Time) ([]*model.Booking, error) {
	return r.findMany(ctx, activeFilter(bson.M{
		"$or": bson.A{
			bson.M{fieldStartFrom: model.NormalizeTime(startFrom)},
			bson.M{fieldTo: model.NormalizeTime(to)},
		},
	}))
}

func (r *mongoBookingRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: fieldStartFrom, Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindActiveByID(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, activeFilter(bson.M{fieldID: oid}))
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{fieldID: oid})
}

func (r *mongoBookingRepository) findOne(ctx context.Context, filter bson.M) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	if err := r.collection.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// UpdateActive overwrites the mutable fields of an active booking in one filtered write.
// A zero MatchedCount means the booking is missing or inactive.
func (r *mongoBookingRepository) UpdateActive(ctx context.Context, id string, update *model.BookingUpdate) (*mongo.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, activeFilter(bson.M{fieldID: oid}), bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return result, nil
}

func (r *mongoBookingRepository) Deactivate(ctx context.Context, id string, userID string, when model.DateStamp) (*mongo.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		fieldStatus:      model.StatusInactive,
		fieldUpdatedBy:   userID,
		fieldUpdatedWhen: when,
	}}
	result, err := r.collection.UpdateOne(ctx, activeFilter(bson.M{fieldID: oid}), update)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return result, nil
}
