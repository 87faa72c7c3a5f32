package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"restobook/pkg/logger"
	"restobook/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	MsgGuestNumber = "guest must not be less than 1"
	MsgCost        = "cost must not be less than 1"
	MsgWindow      = "'start' time must be earlier than 'to' time."
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("payment_status", validatePaymentStatus); err != nil {
		log.Fatal("Failed to register 'payment_status' validator", "error", err)
	}
	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator", "error", err)
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return model.PaymentStatus(fl.Field().String()).IsValid()
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().String()).IsValid()
}

// Validate reports the first violated rule. Guest count, cost and window are
// always checked in that order, before the status enums.
func (v *BookingValidator) Validate(cmd *model.BookingMutation) error {
	if err := v.validate.Var(cmd.GuestNumber, "min=1"); err != nil {
		return ValidationError{Field: "guestNumber", Message: MsgGuestNumber}
	}

	if err := v.validate.Var(cmd.CostPerPerson, "min=1"); err != nil {
		return ValidationError{Field: "costPerPerson", Message: MsgCost}
	}

	window := cmd.ReservationDate
	if !window.IsComplete() {
		return ValidationError{Field: "reservationDate", Message: MsgWindow}
	}
	if err := v.validate.VarWithValue(window.To, window.StartFrom, "gtfield"); err != nil {
		return ValidationError{Field: "reservationDate", Message: MsgWindow}
	}

	if err := v.validate.Struct(cmd); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return v.translate(validationErrs[0])
		}
		return err
	}

	return nil
}

func (v *BookingValidator) translate(err validator.FieldError) ValidationError {
	message := err.Error()

	switch err.Tag() {
	case "payment_status":
		message = fmt.Sprintf("%s must be one of: %s, %s, %s", err.Field(),
			model.PaymentUnpaid, model.PaymentPaid, model.PaymentCashPending)
	case "booking_status":
		message = fmt.Sprintf("%s must be one of: %s, %s, %s", err.Field(),
			model.BookingPending, model.BookingCompleted, model.BookingCancelled)
	}

	return ValidationError{
		Field:   err.Field(),
		Message: message,
	}
}
