package response

import (
	"encoding/json"
	"net/http"
	"time"

	"ainews/internal/model"
)

// RunResult is the trigger endpoints' success body.
type RunResult struct {
	Success        bool   `json:"success"`
	ItemsProcessed int    `json:"itemsProcessed"`
	Timestamp      string `json:"timestamp"`
}

// NewsResult is the read endpoint's success body.
type NewsResult struct {
	Success   bool               `json:"success"`
	News      []model.NewsRecord `json:"news"`
	Timestamp string             `json:"timestamp"`
}

// Failure is the body for failed pipeline or query runs.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

// WriteRunSuccess writes the 200 outcome of a pipeline run.
func WriteRunSuccess(w http.ResponseWriter, itemsProcessed int) error {
	return WriteJSON(w, http.StatusOK, RunResult{
		Success:        true,
		ItemsProcessed: itemsProcessed,
		Timestamp:      Timestamp(),
	})
}

// WriteFailure writes a 500 with a structured error body.
func WriteFailure(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusInternalServerError, Failure{Error: message})
}

// WriteUnauthorized writes the 401 body used by the trigger endpoints.
func WriteUnauthorized(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
}

// Timestamp formats the current time the way the API reports it.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
