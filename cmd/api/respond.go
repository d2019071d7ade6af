package main

import (
	"errors"
	"net/http"

	"github.com/farxc/store_manager/internal/logger"
	"github.com/farxc/store_manager/internal/response"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
	"github.com/go-chi/chi/v5/middleware"
)

// respond writes payload as JSON for clients that asked for it and renders
// page otherwise.
func (app *application) respond(w http.ResponseWriter, r *http.Request, page string, data view.Page, payload any, message string) {
	if wantsJSON(r) {
		if err := writeJSON(w, http.StatusOK, response.OK(payload, message)); err != nil {
			app.logError(r, "Respond", "failed to write response: %v", err)
		}
		return
	}
	app.render(w, r, http.StatusOK, page, data)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page) {
	if err := app.views.Render(w, status, page, data); err != nil {
		app.logError(r, "View", "failed to render %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// invalidForm answers a form that failed validation: the form page again
// with the messages, or a JSON error.
func (app *application) invalidForm(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page) {
	if wantsJSON(r) {
		writeJSONError(w, status, "invalid form", data.Errors...)
		return
	}
	app.render(w, r, status, page, data)
}

// storeError maps a store failure onto a response and logs it.
func (app *application) storeError(w http.ResponseWriter, r *http.Request, component string, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	level := logger.LevelError

	switch {
	case errors.Is(err, store.ErrNotFound):
		status, message, level = http.StatusNotFound, "not found", logger.LevelWarn
	case errors.Is(err, store.ErrConflict):
		status, message, level = http.StatusConflict, "conflicts with existing data", logger.LevelWarn
	}

	app.logger.Fields(level, component, err.Error(), map[string]interface{}{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
		"status":     status,
	})

	if wantsJSON(r) {
		writeJSONError(w, status, message)
		return
	}
	http.Error(w, http.StatusText(status), status)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	if wantsJSON(r) {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}
	http.Error(w, message, http.StatusBadRequest)
}

func (app *application) logError(r *http.Request, component, message string, args ...interface{}) {
	app.logger.Error(component, "[%s] "+message, append([]interface{}{middleware.GetReqID(r.Context())}, args...)...)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
