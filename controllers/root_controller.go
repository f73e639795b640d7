package controllers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// healthHandler reports that the process is serving requests.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("ok")); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// SetupHealthRoute registers the liveness probe.
func SetupHealthRoute(router *mux.Router) {
	router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
}
