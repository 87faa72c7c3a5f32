package service

import (
	"context"
	"reflect"
	"sync"
	"time"

	bookingserrors "restobook/internal/bookings/errors"
	"restobook/internal/bookings/repository"
	"restobook/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryRepository mimics the Mongo repository closely enough for lifecycle
// tests: ObjectID keys, active filters and zero-modified updates.
type memoryRepository struct {
	mu      sync.Mutex
	docs    map[string]*model.Booking
	order   []string
	failAll error
}

var _ repository.BookingRepository = (*memoryRepository)(nil)

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{docs: make(map[string]*model.Booking)}
}

func (m *memoryRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	booking.ID = primitive.NewObjectID().Hex()
	stored := *booking
	m.docs[booking.ID] = &stored
	m.order = append(m.order, booking.ID)
	return nil
}

func (m *memoryRepository) findActive(match func(b *model.Booking) bool) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]*model.Booking, 0)
	for _, id := range m.order {
		b := m.docs[id]
		if b.IsActive() && match(b) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memoryRepository) FindActiveByRestaurant(ctx context.Context, restaurantID string) ([]*model.Booking, error) {
	return m.findActive(func(b *model.Booking) bool { return b.RestaurantID == restaurantID })
}

func (m *memoryRepository) FindActiveByCreator(ctx context.Context, userID string) ([]*model.Booking, error) {
	return m.findActive(func(b *model.Booking) bool { return b.CreatedBy == userID })
}

func (m *memoryRepository) FindActiveByReservationDate(ctx context.Context, startFrom, to time.Time) ([]*model.Booking, error) {
	startFrom, to = model.NormalizeTime(startFrom), model.NormalizeTime(to)
	return m.findActive(func(b *model.Booking) bool {
		return b.ReservationDate.StartFrom.Equal(startFrom) || b.ReservationDate.To.Equal(to)
	})
}

func (m *memoryRepository) lookup(id string) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}
	if m.failAll != nil {
		return nil, m.failAll
	}
	b, ok := m.docs[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return b, nil
}

func (m *memoryRepository) FindActiveByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, bookingserrors.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (m *memoryRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	c := *b
	return &c, nil
}

func (m *memoryRepository) UpdateActive(ctx context.Context, id string, update *model.BookingUpdate) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.lookup(id)
	if err == bookingserrors.ErrNotFound {
		return &mongo.UpdateResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return &mongo.UpdateResult{}, nil
	}

	next := *b
	next.PaymentID = update.PaymentID
	next.ReservationDate = update.ReservationDate
	next.ReservationRequest = update.ReservationRequest
	next.GuestNumber = update.GuestNumber
	next.CostPerPerson = update.CostPerPerson
	next.TotalAmount = update.TotalAmount
	next.PaymentStatus = update.PaymentStatus
	next.BookingStatus = update.BookingStatus
	next.UpdatedBy = update.UpdatedBy
	next.UpdatedWhen = update.UpdatedWhen

	if reflect.DeepEqual(next, *b) {
		return &mongo.UpdateResult{MatchedCount: 1}, nil
	}
	m.docs[id] = &next
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memoryRepository) Deactivate(ctx context.Context, id string, userID string, when model.DateStamp) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.lookup(id)
	if err == bookingserrors.ErrNotFound {
		return &mongo.UpdateResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return &mongo.UpdateResult{}, nil
	}
	b.Status = model.StatusInactive
	b.UpdatedBy = userID
	b.UpdatedWhen = when
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}
