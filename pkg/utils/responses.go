package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with. Status mirrors
// whether the HTTP code is below 400.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes the envelope with the given status code.
func ResponseJSON(w http.ResponseWriter, code int, message string, data, errors any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Response{
		Status:  code < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, message, data, nil)
}

// ResponseBadRequest carries per-field details in errors.
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, message, nil, errors)
}

// ResponseError answers any other failure status with a message only.
func ResponseError(w http.ResponseWriter, code int, message string) {
	ResponseJSON(w, code, message, nil, nil)
}
