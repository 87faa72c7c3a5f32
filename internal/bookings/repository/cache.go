package repository

import (
	"context"
	"errors"
	"time"

	"restobook/pkg/logger"
	"restobook/pkg/model"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	bookingCachePrefix      = "booking:"
	bookingGenerationPrefix = "booking-gen:"

	// generationGrace keeps a generation key alive past any in-flight fill.
	generationGrace = time.Minute
)

// cachedBookingRepository serves FindActiveByID from Redis. Every write to a
// booking bumps its generation key and drops the entry; a fill only lands if
// the generation did not move while Mongo was read. Redis failures fall
// through to the wrapped repository.
type cachedBookingRepository struct {
	BookingRepository
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewCachedBookingRepository(inner BookingRepository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) BookingRepository {
	if rdb == nil {
		return inner
	}
	return &cachedBookingRepository{
		BookingRepository: inner,
		rdb:               rdb,
		ttl:               ttl,
		log:               log,
	}
}

func bookingCacheKey(id string) string {
	return bookingCachePrefix + id
}

func bookingGenerationKey(id string) string {
	return bookingGenerationPrefix + id
}

func (r *cachedBookingRepository) FindActiveByID(ctx context.Context, id string) (*model.Booking, error) {
	key := bookingCacheKey(id)
	if booking, ok := r.lookup(ctx, key); ok {
		return booking, nil
	}

	var (
		booking *model.Booking
		findErr error
		loaded  bool
	)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		booking, findErr = r.BookingRepository.FindActiveByID(ctx, id)
		loaded = true
		if findErr != nil {
			return nil
		}
		data, err := bson.Marshal(booking)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, bookingGenerationKey(id))

	switch {
	case errors.Is(err, redis.TxFailedErr):
		r.log.Debug("Skipped booking cache fill after concurrent write", "key", key)
	case err != nil:
		r.log.Warn("Booking cache write failed", "key", key, "error", err)
	}

	if !loaded {
		return r.BookingRepository.FindActiveByID(ctx, id)
	}
	return booking, findErr
}

func (r *cachedBookingRepository) lookup(ctx context.Context, key string) (*model.Booking, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("Booking cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var booking model.Booking
	if err := bson.Unmarshal(raw, &booking); err != nil || !booking.IsActive() {
		r.log.Warn("Discarding unusable cache entry", "key", key)
		return nil, false
	}
	return &booking, true
}

func (r *cachedBookingRepository) UpdateActive(ctx context.Context, id string, update *model.BookingUpdate) (*mongo.UpdateResult, error) {
	result, err := r.BookingRepository.UpdateActive(ctx, id, update)
	r.invalidate(ctx, id)
	return result, err
}

func (r *cachedBookingRepository) Deactivate(ctx context.Context, id string, userID string, when model.DateStamp) (*mongo.UpdateResult, error) {
	result, err := r.BookingRepository.Deactivate(ctx, id, userID, when)
	r.invalidate(ctx, id)
	return result, err
}

// invalidate runs after the Mongo write, so any fill that read the old
// document is either removed here or rejected by its watch.
func (r *cachedBookingRepository) invalidate(ctx context.Context, id string) {
	genKey := bookingGenerationKey(id)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, r.ttl+generationGrace)
		pipe.Del(ctx, bookingCacheKey(id))
		return nil
	})
	if err != nil {
		r.log.Warn("Booking cache invalidation failed", "id", id, "error", err)
	}
}
