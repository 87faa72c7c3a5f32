package handler

import (
	"net/http"

	"restobook/internal/bookings/service"
	httputil "restobook/pkg/http"
	"restobook/pkg/logger"
	"restobook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	MsgCreated   = "Booking created successfully"
	MsgListed    = "Bookings fetched successfully"
	MsgFetched   = "Booking fetched successfully"
	MsgCancelled = "Booking cancelled successfully"
	MsgUpdated   = "Booking updated successfully"
)

type BookingIDResponse struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

type BookingListResponse struct {
	Message  string               `json:"message"`
	Bookings []*model.BookingView `json:"bookings"`
}

type BookingResponse struct {
	Message string             `json:"message"`
	Booking *model.BookingView `json:"booking"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var cmd model.BookingMutation
	if err := httputil.DecodeJSON(r, &cmd); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	id, err := h.service.Create(r.Context(), &cmd, ps.ByName("userId"), ps.ByName("restaurantId"))
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, BookingIDResponse{Message: MsgCreated, BookingID: id}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetByRestaurant(r.Context(), ps.ByName("restaurantId"))
	h.writeList(w, "GetByRestaurant", bookings, err)
}

func (h *BookingHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetByUser(r.Context(), ps.ByName("userId"))
	h.writeList(w, "GetByUser", bookings, err)
}

func (h *BookingHandler) GetByDateRange(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	startFrom, err := httputil.QueryTime(r, "startFrom")
	if err != nil {
		h.writeError(w, "GetByDateRange", err)
		return
	}
	to, err := httputil.QueryTime(r, "to")
	if err != nil {
		h.writeError(w, "GetByDateRange", err)
		return
	}

	bookings, err := h.service.GetByDateRange(r.Context(), startFrom, to)
	h.writeList(w, "GetByDateRange", bookings, err)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("bookingId"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, BookingResponse{Message: MsgFetched, Booking: booking}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingId")
	if err := h.service.Cancel(r.Context(), bookingID, ps.ByName("userId")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, BookingIDResponse{Message: MsgCancelled, BookingID: bookingID}); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingId")

	var cmd model.BookingMutation
	if err := httputil.DecodeJSON(r, &cmd); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := h.service.Update(r.Context(), &cmd, ps.ByName("userId"), bookingID); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, BookingIDResponse{Message: MsgUpdated, BookingID: bookingID}); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeList(w http.ResponseWriter, name string, bookings []*model.BookingView, err error) {
	if err != nil {
		h.writeError(w, name, err)
		return
	}
	if err := httputil.WriteSuccess(w, BookingListResponse{Message: MsgListed, Bookings: bookings}); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking/:userId/:restaurantId/create", h.Create)
	router.GET("/api/booking/get/restaurantId/:restaurantId", h.GetByRestaurant)
	router.GET("/api/booking/get/userId/:userId", h.GetByUser)
	router.GET("/api/booking/get/bookingId/:bookingId", h.GetByID)
	router.GET("/api/booking/get/date", h.GetByDateRange)
	router.DELETE("/api/booking/:userId/cancel/:bookingId", h.Cancel)
	router.PUT("/api/booking/:userId/update/:bookingId", h.Update)
}
