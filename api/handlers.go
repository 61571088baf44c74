package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"reservation-system/database"
	"reservation-system/logbuffer"
)

type API struct {
	router *mux.Router
	db     *sql.DB
	logger *slog.Logger
	logs   *logbuffer.Buffer

	corsOrigin string
	adminHash  string
}

// Options carries the optional collaborators of the API.
type Options struct {
	Logger     *slog.Logger
	Logs       *logbuffer.Buffer
	CORSOrigin string
	// AdminPasswordHash is a bcrypt hash; when set, catalog mutations
	// require a matching X-Admin-Password header.
	AdminPasswordHash string
}

func NewAPI(db *sql.DB, opts Options) *API {
	r := mux.NewRouter()
	r = r.PathPrefix("/api").Subrouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &API{
		router:     r,
		db:         db,
		logger:     logger,
		logs:       opts.Logs,
		corsOrigin: opts.CORSOrigin,
		adminHash:  opts.AdminPasswordHash,
	}
}

func (a *API) Router() *mux.Router {
	return a.router
}

// Handler wraps the router with request-id tagging, CORS for the browser
// client, and Gorilla's access logging.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.router
	if a.corsOrigin != "" {
		h = handlers.CORS(
			handlers.AllowedOrigins([]string{a.corsOrigin}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Content-Type", "Accept", "X-Admin-Password"}),
			handlers.AllowCredentials(),
		)(h)
	}
	return handlers.LoggingHandler(os.Stdout, a.withRequestID(h))
}

// JSON writes data as the response body with the given status code.
func (a *API) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

// Error writes a failure as {"error": message}. Every failure surface goes
// through here so clients can always display the message field.
func (a *API) Error(w http.ResponseWriter, status int, message string) {
	a.JSON(w, status, map[string]string{"error": message})
}

// storeError maps unexpected accessor failures onto the wire: lock
// contention becomes a retryable 503, anything else is logged in full and
// surfaced as a generic 500.
func (a *API) storeError(r *http.Request, w http.ResponseWriter, err error, operation string) {
	if errors.Is(err, database.ErrBusy) {
		a.log(r).WarnContext(r.Context(), "database busy", "operation", operation)
		a.Error(w, http.StatusServiceUnavailable, "database busy, please retry")
		return
	}
	a.log(r).ErrorContext(r.Context(), "request failed", "operation", operation, "error", err)
	a.Error(w, http.StatusInternalServerError, "internal server error")
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/logs", a.getLogs).Methods(http.MethodGet)

	a.router.HandleFunc("/rooms", a.getRooms).Methods(http.MethodGet)
	a.router.HandleFunc("/rooms", a.admin(a.createRoom)).Methods(http.MethodPost)
	a.router.HandleFunc("/rooms/{id}", a.admin(a.updateRoom)).Methods(http.MethodPut)
	a.router.HandleFunc("/rooms/{id}", a.admin(a.deleteRoom)).Methods(http.MethodDelete)

	a.router.HandleFunc("/time-slots", a.getTimeSlots).Methods(http.MethodGet)
	a.router.HandleFunc("/time-slots", a.admin(a.createTimeSlot)).Methods(http.MethodPost)
	a.router.HandleFunc("/time-slots/{id}", a.admin(a.updateTimeSlot)).Methods(http.MethodPut)
	a.router.HandleFunc("/time-slots/{id}", a.admin(a.deleteTimeSlot)).Methods(http.MethodDelete)

	a.router.HandleFunc("/reservations", a.getReservations).Methods(http.MethodGet)
	a.router.HandleFunc("/reservations", a.createReservation).Methods(http.MethodPost)
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
