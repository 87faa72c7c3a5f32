package model

const (
	StatusInactive = 0
	StatusActive   = 1
)

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "Unpaid"
	PaymentPaid        PaymentStatus = "Paid"
	PaymentCashPending PaymentStatus = "Cash Pending"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentCashPending:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is the document stored in the bookings collection.
// Status is the soft-delete marker and is independent of BookingStatus.
type Booking struct {
	ID                 string            `bson:"_id,omitempty"`
	RestaurantID       string            `bson:"restaurantId"`
	PaymentID          *string           `bson:"paymentId"`
	ReservationDate    ReservationWindow `bson:"reservationDate"`
	ReservationRequest string            `bson:"reservationRequest"`
	GuestNumber        int               `bson:"guestNumber"`
	CostPerPerson      int               `bson:"costPerPerson"`
	TotalAmount        int               `bson:"totalAmount"`
	PaymentStatus      PaymentStatus     `bson:"paymentStatus"`
	BookingStatus      BookingStatus     `bson:"bookingStatus"`
	Status             int               `bson:"status"`
	CreatedBy          string            `bson:"created_by"`
	CreatedWhen        DateStamp         `bson:"created_when"`
	UpdatedBy          string            `bson:"updated_by"`
	UpdatedWhen        DateStamp         `bson:"updated_when"`
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// BookingMutation is the request body for both create and update.
type BookingMutation struct {
	PaymentID          *string           `json:"paymentId"`
	ReservationDate    ReservationWindow `json:"reservationDate"`
	ReservationRequest string            `json:"reservationRequest"`
	GuestNumber        int               `json:"guestNumber"`
	CostPerPerson      int               `json:"costPerPerson"`
	PaymentStatus      PaymentStatus     `json:"paymentStatus" validate:"payment_status"`
	BookingStatus      BookingStatus     `json:"bookingStatus" validate:"booking_status"`
}

// BookingUpdate is the $set document applied to an active booking.
type BookingUpdate struct {
	PaymentID          *string           `bson:"paymentId"`
	ReservationDate    ReservationWindow `bson:"reservationDate"`
	ReservationRequest string            `bson:"reservationRequest"`
	GuestNumber        int               `bson:"guestNumber"`
	CostPerPerson      int               `bson:"costPerPerson"`
	TotalAmount        int               `bson:"totalAmount"`
	PaymentStatus      PaymentStatus     `bson:"paymentStatus"`
	BookingStatus      BookingStatus     `bson:"bookingStatus"`
	UpdatedBy          string            `bson:"updated_by"`
	UpdatedWhen        DateStamp         `bson:"updated_when"`
}

// BookingView is the public shape returned by every read.
type BookingView struct {
	BookingID          string            `json:"bookingId"`
	RestaurantID       string            `json:"restaurantId"`
	PaymentID          *string           `json:"paymentId"`
	ReservationDate    ReservationWindow `json:"reservationDate"`
	ReservationRequest string            `json:"reservationRequest"`
	GuestNumber        int               `json:"guestNumber"`
	CostPerPerson      int               `json:"costPerPerson"`
	TotalAmount        int               `json:"totalAmount"`
	PaymentStatus      PaymentStatus     `json:"paymentStatus"`
	BookingStatus      BookingStatus     `json:"bookingStatus"`
	CreatedBy          string            `json:"createdBy"`
	CreatedWhen        DateStamp         `json:"createdWhen"`
	UpdatedBy          string            `json:"updatedBy"`
	UpdatedWhen        DateStamp         `json:"updatedWhen"`
}

func (b *Booking) View() *BookingView {
	return &BookingView{
		BookingID:          b.ID,
		RestaurantID:       b.RestaurantID,
		PaymentID:          b.PaymentID,
		ReservationDate:    b.ReservationDate,
		ReservationRequest: b.ReservationRequest,
		GuestNumber:        b.GuestNumber,
		CostPerPerson:      b.CostPerPerson,
		TotalAmount:        b.TotalAmount,
		PaymentStatus:      b.PaymentStatus,
		BookingStatus:      b.BookingStatus,
		CreatedBy:          b.CreatedBy,
		CreatedWhen:        b.CreatedWhen,
		UpdatedBy:          b.UpdatedBy,
		UpdatedWhen:        b.UpdatedWhen,
	}
}

func Views(bookings []*Booking) []*BookingView {
	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, b.View())
	}
	return views
}

// TotalAmount is the only way the stored total is derived.
func TotalAmount(guestNumber, costPerPerson int) int {
	return guestNumber * costPerPerson
}
