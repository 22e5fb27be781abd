// Package respond writes JSON bodies. Errors use a "detail" key: a string
// for simple failures, a list of field problems for rejected input.
package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"detail": message})
}

// Problems writes a list of per-field problems, e.g. schema violations.
func Problems[T any](w http.ResponseWriter, r *http.Request, code int, problems []T) {
	JSON(w, r, code, map[string][]T{"detail": problems})
}
