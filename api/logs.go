package api

import (
	"net/http"

	"reservation-system/logbuffer"
)

// getLogs serves the recent server log window for the operational view.
func (a *API) getLogs(w http.ResponseWriter, _ *http.Request) {
	if a.logs == nil {
		a.JSON(w, http.StatusOK, []logbuffer.Record{})
		return
	}
	a.JSON(w, http.StatusOK, a.logs.Records())
}
