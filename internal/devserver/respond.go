package devserver

import (
	"encoding/json"
	"net/http"
)

type fieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeInvalid(w http.ResponseWriter, problems ...fieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
}
