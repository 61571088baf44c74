package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"reservation-system/api"
	"reservation-system/logbuffer"
)

func setupAPI(t *testing.T, opts api.Options) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := api.NewAPI(db, opts)
	a.RegisterRoutes()
	return a, dbMock
}

func doJSON(t *testing.T, a *api.API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestRoomsAPI(t *testing.T) {
	t.Parallel()

	roomCols := []string{"id", "name", "capacity", "building"}
	selectByID := regexp.QuoteMeta(`SELECT id, name, capacity, building FROM rooms WHERE id = ?`)

	t.Run("list rooms", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, capacity, building FROM rooms`)).
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(1, "Sala 101", 30, "Edificio 1"))

		rec := doJSON(t, a, http.MethodGet, "/api/rooms", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rooms []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&rooms))
		require.Len(t, rooms, 1)
		assert.Equal(t, "Sala 101", rooms[0]["name"])
		assert.EqualValues(t, 30, rooms[0]["capacity"])
	})

	t.Run("create room", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms (name, capacity, building) VALUES (?, ?, ?)`)).
			WithArgs("Sala 101", 30, "Edificio 1").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectQuery(selectByID).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(1, "Sala 101", 30, "Edificio 1"))
		dbMock.ExpectCommit()

		rec := doJSON(t, a, http.MethodPost, "/api/rooms",
			map[string]any{"name": "Sala 101", "capacity": 30, "building": "Edificio 1"})

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.EqualValues(t, 1, created["id"])
		assert.EqualValues(t, 30, created["capacity"])
	})

	t.Run("create room invalid capacity", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPost, "/api/rooms",
			map[string]any{"name": "Sala 101", "capacity": 0, "building": "Edificio 1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "capacity must be a positive number", errorMessage(t, rec))
	})

	t.Run("create room invalid body", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewBufferString("not json"))
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update missing room", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET name = ?, capacity = ?, building = ? WHERE id = ?`)).
			WithArgs("Sala 101", 30, "Edificio 1", int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectRollback()

		rec := doJSON(t, a, http.MethodPut, "/api/rooms/99",
			map[string]any{"name": "Sala 101", "capacity": 30, "building": "Edificio 1"})

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "room not found", errorMessage(t, rec))
	})

	t.Run("update room invalid id", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPut, "/api/rooms/abc",
			map[string]any{"name": "Sala 101", "capacity": 30, "building": "Edificio 1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete room with reservations", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(selectByID).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(1, "Sala 101", 30, "Edificio 1"))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE room_id = ?`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		dbMock.ExpectRollback()

		rec := doJSON(t, a, http.MethodDelete, "/api/rooms/1", nil)

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cannot delete a room with existing reservations", errorMessage(t, rec))
	})

	t.Run("delete unreferenced room", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(selectByID).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(2, "Sala 102", 25, "Edificio 1"))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE room_id = ?`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE id = ?`)).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		rec := doJSON(t, a, http.MethodDelete, "/api/rooms/2", nil)

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTimeSlotsAPI(t *testing.T) {
	t.Parallel()

	t.Run("create time slot", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		days := []byte(`["L","M","X","J","V"]`)
		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO time_slots (start, "end", days) VALUES (?, ?, ?)`)).
			WillReturnResult(sqlmock.NewResult(6, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, start, "end", days FROM time_slots WHERE id = ?`)).
			WithArgs(int64(6)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "start", "end", "days"}).
				AddRow(6, "08:00", "09:30", days))
		dbMock.ExpectCommit()

		rec := doJSON(t, a, http.MethodPost, "/api/time-slots",
			map[string]any{"start": "08:00", "end": "09:30", "days": []string{"L", "M", "X", "J", "V"}})

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.EqualValues(t, 6, created["id"])
		assert.Equal(t, "08:00", created["start"])
	})

	t.Run("create time slot start after end", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPost, "/api/time-slots",
			map[string]any{"start": "10:00", "end": "09:00", "days": []string{"L"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "start time must be before end time", errorMessage(t, rec))
	})

	t.Run("create time slot without days", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPost, "/api/time-slots",
			map[string]any{"start": "08:00", "end": "09:30", "days": []string{}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReservationsAPI(t *testing.T) {
	t.Parallel()

	resCols := []string{"id", "room_id", "time_slot_id", "date", "user_id", "purpose", "groups"}
	roomCheck := regexp.QuoteMeta(`SELECT id FROM rooms WHERE id = ?`)
	slotCheck := regexp.QuoteMeta(`SELECT id FROM time_slots WHERE id = ?`)
	freeCheck := regexp.QuoteMeta(`SELECT id FROM reservations WHERE room_id = ? AND time_slot_id = ? AND date = ?`)

	body := map[string]any{
		"room_id": 1, "time_slot_id": 2, "date": "2024-03-04",
		"user_id": "a@b.com", "purpose": "class",
	}

	t.Run("create reservation", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(roomCheck).WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		dbMock.ExpectQuery(slotCheck).WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		dbMock.ExpectQuery(freeCheck).WithArgs(int64(1), int64(2), "2024-03-04").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations`)).
			WillReturnResult(sqlmock.NewResult(11, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, room_id, time_slot_id, date, user_id, purpose, "groups" FROM reservations WHERE id = ?`)).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(resCols).AddRow(11, 1, 2, "2024-03-04", "a@b.com", "class", nil))
		dbMock.ExpectCommit()

		rec := doJSON(t, a, http.MethodPost, "/api/reservations", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.EqualValues(t, 11, created["id"])
		assert.Equal(t, "2024-03-04", created["date"])
	})

	t.Run("create reservation accepts string ids", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(roomCheck).WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		dbMock.ExpectQuery(slotCheck).WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		dbMock.ExpectQuery(freeCheck).WithArgs(int64(1), int64(2), "2024-03-04").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations`)).
			WillReturnResult(sqlmock.NewResult(12, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, room_id, time_slot_id, date, user_id, purpose, "groups" FROM reservations WHERE id = ?`)).
			WithArgs(int64(12)).
			WillReturnRows(sqlmock.NewRows(resCols).AddRow(12, 1, 2, "2024-03-04", "a@b.com", "class", nil))
		dbMock.ExpectCommit()

		rec := doJSON(t, a, http.MethodPost, "/api/reservations", map[string]any{
			"room_id": "1", "time_slot_id": "2", "date": "2024-03-04",
			"user_id": "a@b.com", "purpose": "class",
		})

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create reservation conflict", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(roomCheck).WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		dbMock.ExpectQuery(slotCheck).WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		dbMock.ExpectQuery(freeCheck).WithArgs(int64(1), int64(2), "2024-03-04").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		dbMock.ExpectRollback()

		rec := doJSON(t, a, http.MethodPost, "/api/reservations", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "slot already reserved", errorMessage(t, rec))
	})

	t.Run("create reservation missing room", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(roomCheck).WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		dbMock.ExpectRollback()

		rec := doJSON(t, a, http.MethodPost, "/api/reservations", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "room not found", errorMessage(t, rec))
	})

	t.Run("create reservation missing fields", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPost, "/api/reservations",
			map[string]any{"room_id": 1, "time_slot_id": 2})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "all fields are required", errorMessage(t, rec))
	})

	t.Run("create reservation non-numeric ids", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodPost, "/api/reservations", map[string]any{
			"room_id": "abc", "time_slot_id": "2", "date": "2024-03-04",
			"user_id": "a@b.com", "purpose": "class",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list reservations", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, room_id, time_slot_id, date, user_id, purpose, "groups" FROM reservations WHERE date = ?`)).
			WithArgs("2024-03-04").
			WillReturnRows(sqlmock.NewRows(resCols).AddRow(1, 1, 2, "2024-03-04", "a@b.com", "class", nil))

		rec := doJSON(t, a, http.MethodGet, "/api/reservations?date=2024-03-04", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var listed []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
		require.Len(t, listed, 1)
	})

	t.Run("list reservations requires date", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		rec := doJSON(t, a, http.MethodGet, "/api/reservations", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, a, http.MethodGet, "/api/reservations?date=04-03-2024", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminGate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("rejects missing credential", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{AdminPasswordHash: string(hash)})

		rec := doJSON(t, a, http.MethodPost, "/api/rooms",
			map[string]any{"name": "Sala 101", "capacity": 30, "building": "Edificio 1"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "admin credentials required", errorMessage(t, rec))
	})

	t.Run("accepts valid credential", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{AdminPasswordHash: string(hash)})

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, capacity, building FROM rooms WHERE id = ?`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "building"}).
				AddRow(1, "Sala 101", 30, "Edificio 1"))
		dbMock.ExpectCommit()

		payload, _ := json.Marshal(map[string]any{"name": "Sala 101", "capacity": 30, "building": "Edificio 1"})
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Password", "secret")
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("reads stay open", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{AdminPasswordHash: string(hash)})

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, capacity, building FROM rooms`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "building"}))

		rec := doJSON(t, a, http.MethodGet, "/api/rooms", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogsAPI(t *testing.T) {
	t.Parallel()

	logs := logbuffer.New(10)
	logger := slog.New(logs)
	a, _ := setupAPI(t, api.Options{Logger: logger, Logs: logs})

	logger.Info("database schema ready")
	logger.Error("something failed", "error", "boom")

	rec := doJSON(t, a, http.MethodGet, "/api/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []logbuffer.Record
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
	require.Len(t, records, 2)
	assert.Equal(t, "info", records[0].Type)
	assert.Equal(t, "database schema ready", records[0].Message)
	assert.Equal(t, "error", records[1].Type)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	a, _ := setupAPI(t, api.Options{})
	rec := doJSON(t, a, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
