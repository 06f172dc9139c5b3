package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"ainews/internal/application"
	"ainews/internal/transport/middleware"
)

// NewRouter builds the HTTP routing for an application instance.
func NewRouter(app *application.Application) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(corsMiddleware)

	cronAuth := middleware.Auth(app.Config.CronSecret)
	manualAuth := middleware.AuthOptional(app.Config.CronSecret)

	// Scheduled trigger: strict shared-secret auth.
	api.Handle("/cron", cronAuth(app.TriggerHandler)).Methods("GET")

	// Manual trigger: front-end calls carry no Authorization header.
	api.Handle("/fetch-news", manualAuth(app.TriggerHandler)).Methods("POST", "OPTIONS")

	api.Handle("/news", app.NewsHandler).Methods("GET", "OPTIONS")
	api.Handle("/status", app.StatusHandler).Methods("GET")
	api.HandleFunc("/health", healthHandler).Methods("GET")

	return r
}

// HandleRequest handles a single HTTP request, creating the application
// per invocation (for Cloud Functions).
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	app, err := application.New(r.Context())
	if err != nil {
		log.Printf("Failed to create application: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer app.Close()

	NewRouter(app).ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy"}`))
}

// loggingMiddleware logs request method, path and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// corsMiddleware allows the web client to call the API cross-origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
