package httpapi

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/httpapi/recovery"
)

// NewRouter wires HTTP routes to h.
func NewRouter(h *Handler, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(log))

	root.HandleFunc("/healthz", h.CheckHealth).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	root.HandleFunc("/api/session", h.CreateSession).Methods("POST")

	api := root.PathPrefix("/api").Subrouter()
	api.Use(h.Authenticate)

	api.HandleFunc("/session", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/state", h.GetState).Methods("GET")
	api.HandleFunc("/chat", h.PostChat).Methods("POST")
	api.HandleFunc("/moods", h.PostMood).Methods("POST")
	api.HandleFunc("/moods/stats", h.GetMoodStats).Methods("GET")
	api.HandleFunc("/exercises", h.GetExercises).Methods("GET")
	api.HandleFunc("/exercises/{id}/complete", h.CompleteExercise).Methods("POST")
	api.HandleFunc("/view", h.PutView).Methods("PUT")
	api.HandleFunc("/theme", h.PutTheme).Methods("PUT")
	return root
}
