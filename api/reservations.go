package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"reservation-system/reservation"
)

func (a *API) getReservations(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		a.Error(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		a.Error(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	reservationAccessor := reservation.NewAccessor(a.db)
	reservations, err := reservationAccessor.List(r.Context(), date)
	if err != nil {
		a.storeError(r, w, err, "list reservations")
		return
	}
	a.log(r).InfoContext(r.Context(), "reservations listed", "date", date, "count", len(reservations))
	a.JSON(w, http.StatusOK, reservations)
}

// createReservationRequest accepts ids either as JSON numbers or as numeric
// strings, the way browser form payloads tend to arrive.
type createReservationRequest struct {
	RoomID     json.Number `json:"room_id"`
	TimeSlotID json.Number `json:"time_slot_id"`
	Date       string      `json:"date"`
	UserID     string      `json:"user_id"`
	Purpose    string      `json:"purpose"`
	Groups     *string     `json:"groups"`
}

func (a *API) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RoomID == "" || req.TimeSlotID == "" || req.Date == "" || req.UserID == "" || req.Purpose == "" {
		a.Error(w, http.StatusBadRequest, "all fields are required")
		return
	}

	roomID, err := req.RoomID.Int64()
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid IDs")
		return
	}
	timeSlotID, err := req.TimeSlotID.Int64()
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid IDs")
		return
	}

	payload := reservation.Reservation{
		RoomID:     roomID,
		TimeSlotID: timeSlotID,
		Date:       req.Date,
		UserID:     req.UserID,
		Purpose:    req.Purpose,
		Groups:     req.Groups,
	}
	payload.Normalize()
	if err := payload.Validate(); err != nil {
		a.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	reservationAccessor := reservation.NewAccessor(a.db)
	created, err := reservationAccessor.Create(r.Context(), payload)
	switch {
	case errors.Is(err, reservation.ErrRoomNotFound):
		a.Error(w, http.StatusNotFound, "room not found")
		return
	case errors.Is(err, reservation.ErrTimeSlotNotFound):
		a.Error(w, http.StatusNotFound, "time slot not found")
		return
	case errors.Is(err, reservation.ErrSlotTaken):
		a.Error(w, http.StatusConflict, "slot already reserved")
		return
	case err != nil:
		a.storeError(r, w, err, "create reservation")
		return
	}

	a.log(r).InfoContext(r.Context(), "reservation created",
		"reservation_id", created.ID, "room_id", created.RoomID,
		"time_slot_id", created.TimeSlotID, "date", created.Date)
	a.JSON(w, http.StatusCreated, created)
}
