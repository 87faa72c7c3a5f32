package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "restobook/internal/bookings/errors"
	"restobook/internal/bookings/events"
	"restobook/internal/bookings/repository"
	"restobook/internal/bookings/validator"
	"restobook/pkg/config"
	apperrors "restobook/pkg/errors"
	"restobook/pkg/model"
	"restobook/pkg/sanitizer"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	msgBookingsNotFound   = "Bookings not found."
	msgBookingNotFound    = "Booking not found."
	msgAlreadyInactive    = "Booking is already inactive."
	msgUpdateInactive     = "cannot update booking because it is inactive."
	msgStatusUpdateFailed = "Error updating booking status."
	msgCreateFailed       = "Error creating booking"
)

type BookingService interface {
	Create(ctx context.Context, cmd *model.BookingMutation, userID string, restaurantID string) (string, error)
	GetByRestaurant(ctx context.Context, restaurantID string) ([]*model.BookingView, error)
	GetByUser(ctx context.Context, userID string) ([]*model.BookingView, error)
	GetByID(ctx context.Context, bookingID string) (*model.BookingView, error)
	GetByDateRange(ctx context.Context, startFrom, to time.Time) ([]*model.BookingView, error)
	Cancel(ctx context.Context, bookingID string, userID string) error
	Update(ctx context.Context, cmd *model.BookingMutation, userID string, bookingID string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

type Option func(*bookingService)

// WithClock replaces the wall clock used for date stamps and event times.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) {
		s.now = now
	}
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	s := &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) Create(ctx context.Context, cmd *model.BookingMutation, userID string, restaurantID string) (string, error) {
	s.applyDefaults(cmd)
	s.sanitize(cmd)
	if err := s.validate(cmd); err != nil {
		return "", err
	}

	var booking model.Booking
	if err := copier.Copy(&booking, cmd); err != nil {
		return "", apperrors.Internal(msgCreateFailed, err)
	}

	today := model.NewDateStamp(s.now())
	booking.ReservationDate = cmd.ReservationDate.Normalize()
	booking.RestaurantID = restaurantID
	booking.TotalAmount = model.TotalAmount(cmd.GuestNumber, cmd.CostPerPerson)
	booking.Status = model.StatusActive
	booking.CreatedBy = userID
	booking.CreatedWhen = today
	booking.UpdatedBy = userID
	booking.UpdatedWhen = today

	if err := s.repo.Create(ctx, &booking); err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"restaurant_id", restaurantID,
			"user_id", userID,
			"error", err,
		)
		return "", apperrors.Internal(msgCreateFailed, err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"restaurant_id", restaurantID,
		"user_id", userID,
		"total_amount", booking.TotalAmount,
	)
	s.publish(ctx, events.TypeBookingCreated, &booking, userID)
	return booking.ID, nil
}

func (s *bookingService) GetByRestaurant(ctx context.Context, restaurantID string) ([]*model.BookingView, error) {
	bookings, err := s.repo.FindActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by restaurant", "restaurant_id", restaurantID, "error", err)
		return nil, apperrors.Internal("Error fetching bookings by restaurant ID.", err)
	}
	return views(bookings)
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.BookingView, error) {
	bookings, err := s.repo.FindActiveByCreator(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Error fetching bookings by user ID.", err)
	}
	return views(bookings)
}

func (s *bookingService) GetByDateRange(ctx context.Context, startFrom, to time.Time) ([]*model.BookingView, error) {
	bookings, err := s.repo.FindActiveByReservationDate(ctx, startFrom, to)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by date",
			"start_from", startFrom,
			"to", to,
			"error", err,
		)
		return nil, apperrors.Internal("Error fetching bookings by date.", err)
	}
	return views(bookings)
}

func views(bookings []*model.Booking) ([]*model.BookingView, error) {
	if len(bookings) == 0 {
		return nil, apperrors.NotFound(msgBookingsNotFound)
	}
	return model.Views(bookings), nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*model.BookingView, error) {
	booking, err := s.repo.FindActiveByID(ctx, bookingID)
	if err != nil {
		if isMissing(err) {
			return nil, apperrors.NotFoundWithID(msgBookingsNotFound, bookingID)
		}
		s.cfg.Log.Error("Failed to get booking", "id", bookingID, "error", err)
		return nil, apperrors.Internal("Error fetching booking by ID.", err)
	}
	return booking.View(), nil
}

// Cancel flips the active flag in a single filtered write. The document is only
// read afterwards to explain a write that matched nothing.
func (s *bookingService) Cancel(ctx context.Context, bookingID string, userID string) error {
	result, err := s.repo.Deactivate(ctx, bookingID, userID, model.NewDateStamp(s.now()))
	if err != nil {
		if isMissing(err) {
			return apperrors.NotFoundWithID(msgBookingNotFound, bookingID)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", bookingID, "user_id", userID, "error", err)
		return apperrors.Internal(msgStatusUpdateFailed, err)
	}

	if err := s.checkWrite(ctx, bookingID, result, msgAlreadyInactive); err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", bookingID, "user_id", userID)
	s.publish(ctx, events.TypeBookingCancelled, &model.Booking{ID: bookingID}, userID)
	return nil
}

func (s *bookingService) Update(ctx context.Context, cmd *model.BookingMutation, userID string, bookingID string) error {
	s.applyDefaults(cmd)
	s.sanitize(cmd)
	if err := s.validate(cmd); err != nil {
		// A cancelled booking reports its state whatever the payload.
		if s.isInactive(ctx, bookingID) {
			return apperrors.InvalidState(msgUpdateInactive)
		}
		return err
	}

	update := &model.BookingUpdate{
		PaymentID:          cmd.PaymentID,
		ReservationDate:    cmd.ReservationDate.Normalize(),
		ReservationRequest: cmd.ReservationRequest,
		GuestNumber:        cmd.GuestNumber,
		CostPerPerson:      cmd.CostPerPerson,
		TotalAmount:        model.TotalAmount(cmd.GuestNumber, cmd.CostPerPerson),
		PaymentStatus:      cmd.PaymentStatus,
		BookingStatus:      cmd.BookingStatus,
		UpdatedBy:          userID,
		UpdatedWhen:        model.NewDateStamp(s.now()),
	}

	result, err := s.repo.UpdateActive(ctx, bookingID, update)
	if err != nil {
		if isMissing(err) {
			return apperrors.NotFoundWithID(msgBookingNotFound, bookingID)
		}
		s.cfg.Log.Error("Failed to update booking", "id", bookingID, "user_id", userID, "error", err)
		return apperrors.Internal(msgStatusUpdateFailed, err)
	}

	if err := s.checkWrite(ctx, bookingID, result, msgUpdateInactive); err != nil {
		return err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", bookingID, "user_id", userID)
	s.publish(ctx, events.TypeBookingUpdated, &model.Booking{
		ID:              bookingID,
		ReservationDate: update.ReservationDate,
		GuestNumber:     update.GuestNumber,
		TotalAmount:     update.TotalAmount,
		PaymentStatus:   update.PaymentStatus,
		BookingStatus:   update.BookingStatus,
	}, userID)
	return nil
}

// checkWrite turns the outcome of a filtered write on an active booking into
// NotFound, InvalidState or InternalError.
func (s *bookingService) checkWrite(ctx context.Context, bookingID string, result *mongo.UpdateResult, inactiveMsg string) error {
	if result != nil && result.MatchedCount > 0 {
		if result.ModifiedCount == 0 {
			s.cfg.Log.Error("Booking write modified nothing", "id", bookingID)
			return apperrors.Internal(msgStatusUpdateFailed, nil)
		}
		return nil
	}

	existing, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if isMissing(err) {
			return apperrors.NotFoundWithID(msgBookingNotFound, bookingID)
		}
		s.cfg.Log.Error("Failed to load booking after unmatched write", "id", bookingID, "error", err)
		return apperrors.Internal(msgStatusUpdateFailed, err)
	}
	if !existing.IsActive() {
		s.cfg.Log.Warn("Rejected write on inactive booking", "id", bookingID)
		return apperrors.InvalidState(inactiveMsg)
	}

	// Active but unmatched: the filter lost a race with a concurrent write.
	s.cfg.Log.Error("Booking write matched nothing on an active booking", "id", bookingID)
	return apperrors.Internal(msgStatusUpdateFailed, nil)
}

func (s *bookingService) isInactive(ctx context.Context, bookingID string) bool {
	existing, err := s.repo.FindByID(ctx, bookingID)
	return err == nil && !existing.IsActive()
}

func isMissing(err error) bool {
	return errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID)
}

// --- Helpers ---

func (s *bookingService) applyDefaults(cmd *model.BookingMutation) {
	if cmd.PaymentStatus == "" {
		cmd.PaymentStatus = model.PaymentUnpaid
	}
	if cmd.BookingStatus == "" {
		cmd.BookingStatus = model.BookingPending
	}
}

func (s *bookingService) sanitize(cmd *model.BookingMutation) {
	cmd.ReservationRequest = sanitizer.TrimAndNormalize(cmd.ReservationRequest)
	if cmd.PaymentID != nil {
		paymentID := sanitizer.TrimAndNormalize(*cmd.PaymentID)
		if paymentID == "" {
			cmd.PaymentID = nil
		} else {
			cmd.PaymentID = &paymentID
		}
	}
}

func (s *bookingService) validate(cmd *model.BookingMutation) error {
	if err := s.validator.Validate(cmd); err != nil {
		var vErr validator.ValidationError
		if errors.As(err, &vErr) {
			s.cfg.Log.Warn("Booking validation failed", "field", vErr.Field, "error", vErr.Message)
			return apperrors.Validation(vErr.Message, map[string]any{"field": vErr.Field})
		}
		return apperrors.Internal("Booking validation failed", err)
	}
	return nil
}

// publish never fails the operation; the booking is already stored. It runs
// detached from request cancellation and is bounded by EventPublishTimeout.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, userID string) {
	event := events.Event{
		Type:          eventType,
		BookingID:     booking.ID,
		RestaurantID:  booking.RestaurantID,
		UserID:        userID,
		GuestNumber:   booking.GuestNumber,
		TotalAmount:   booking.TotalAmount,
		PaymentStatus: booking.PaymentStatus,
		BookingStatus: booking.BookingStatus,
		OccurredAt:    s.now().UTC(),
	}
	if booking.ReservationDate.IsComplete() {
		window := booking.ReservationDate
		event.Reservation = &window
	}

	timeout := s.cfg.EventPublishTimeout
	if timeout <= 0 {
		timeout = config.DefaultEventPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"id", booking.ID,
			"error", err,
		)
	}
}
