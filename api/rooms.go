package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reservation-system/database"
	"reservation-system/room"
)

func (a *API) getRooms(w http.ResponseWriter, r *http.Request) {
	roomAccessor := room.NewAccessor(a.db)
	rooms, err := roomAccessor.List(r.Context())
	if err != nil {
		a.storeError(r, w, err, "list rooms")
		return
	}
	a.log(r).InfoContext(r.Context(), "rooms listed", "count", len(rooms))
	a.JSON(w, http.StatusOK, rooms)
}

func (a *API) createRoom(w http.ResponseWriter, r *http.Request) {
	var payload room.Room
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		a.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	roomAccessor := room.NewAccessor(a.db)
	created, err := roomAccessor.Create(r.Context(), payload)
	if err != nil {
		a.storeError(r, w, err, "create room")
		return
	}

	a.log(r).InfoContext(r.Context(), "room created", "room_id", created.ID, "name", created.Name)
	a.JSON(w, http.StatusCreated, created)
}

func (a *API) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid room ID")
		return
	}

	var payload room.Room
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

	roomAccessor := room.NewAccessor(a.db)
	updated, err := roomAccessor.Update(r.Context(), payload)
	if errors.Is(err, database.ErrNotFound) {
		a.Error(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		a.storeError(r, w, err, "update room")
		return
	}

	a.log(r).InfoContext(r.Context(), "room updated", "room_id", updated.ID)
	a.JSON(w, http.StatusOK, updated)
}

func (a *API) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.Error(w, http.StatusBadRequest, "invalid room ID")
		return
	}

	roomAccessor := room.NewAccessor(a.db)
	err = roomAccessor.Delete(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		a.Error(w, http.StatusNotFound, "room not found")
		return
	}
	if errors.Is(err, room.ErrHasReservations) {
		a.Error(w, http.StatusBadRequest, "cannot delete a room with existing reservations")
		return
	}
	if err != nil {
		a.storeError(r, w, err, "delete room")
		return
	}

	a.log(r).InfoContext(r.Context(), "room deleted", "room_id", id)
	a.JSON(w, http.StatusOK, map[string]string{"message": "room deleted"})
}
