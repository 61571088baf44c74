package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reservation-system/database"
	"reservation-system/timeslot"
)

func (a *API) getTimeSlots(w http.ResponseWriter, r *http.Request) {
	slotAccessor := timeslot.NewAccessor(a.db)
	slots, err := slotAccessor.List(r.Context())
	if err != nil {
		a.storeError(r, w, err, "list time slots")
		return
	}
	a.log(r).InfoContext(r.Context(), "time slots listed", "count", len(slots))
	a.JSON(w, http.StatusOK, slots)
}

func (a *API) createTimeSlot(w http.ResponseWriter, r *http.Request) {
	var payload timeslot.TimeSlot
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		a.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	slotAccessor := timeslot.NewAccessor(a.db)
	created, err := slotAccessor.Create(r.Context(), payload)
	if err != nil {
		a.storeError(r, w, err, "create time slot")
		return
	}

	a.log(r).InfoContext(r.Context(), "time slot created", "time_slot_id", created.ID,
		"start", created.Start, "end", created.End)
	a.JSON(w, http.StatusCreated, created)
}

func (a *API) updateTimeSlot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid time slot ID")
		return
	}

	var payload timeslot.TimeSlot
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		a.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	slotAccessor := timeslot.NewAccessor(a.db)
	updated, err := slotAccessor.Update(r.Context(), payload)
	if errors.Is(err, database.ErrNotFound) {
		a.Error(w, http.StatusNotFound, "time slot not found")
		return
	}
	if err != nil {
		a.storeError(r, w, err, "update time slot")
		return
	}

	a.log(r).InfoContext(r.Context(), "time slot updated", "time_slot_id", updated.ID)
	a.JSON(w, http.StatusOK, updated)
}

func (a *API) deleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid time slot ID")
		return
	}

	slotAccessor := timeslot.NewAccessor(a.db)
	err = slotAccessor.Delete(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		a.Error(w, http.StatusNotFound, "time slot not found")
		return
	}
	if errors.Is(err, timeslot.ErrHasReservations) {
		a.Error(w, http.StatusBadRequest, "cannot delete a time slot with existing reservations")
		return
	}
	if err != nil {
		a.storeError(r, w, err, "delete time slot")
		return
	}

	a.log(r).InfoContext(r.Context(), "time slot deleted", "time_slot_id", id)
	a.JSON(w, http.StatusOK, map[string]string{"message": "time slot deleted"})
}
