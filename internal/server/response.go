package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// statusError is the error envelope returned by every failing endpoint.
type statusError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, statusError{Status: "error", Error: msg})
}
