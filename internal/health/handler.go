// Package health exposes the liveness probe.
package health

import "net/http"

// Handler responds to liveness checks with a static JSON body.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
