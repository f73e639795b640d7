package middlewares

import (
	"log"
	"net/http"
)

// RespondHTML writes an HTML page with the given status.
func RespondHTML(w http.ResponseWriter, body []byte, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("error writing response: %v", err)
	}
}

// HttpError logs err and answers with the generic status text only.
func HttpError(w http.ResponseWriter, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, http.StatusText(status), err)
	http.Error(w, http.StatusText(status), status)
}
