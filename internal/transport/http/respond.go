package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joaopjk/moto-manager/internal/domain"
)

type errorPayload struct {
	Message string `json:"mensagem"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain failures to HTTP statuses. Validation and not-found
// failures are indistinguishable on purpose; everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidData) {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "Dados inválidos"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "Erro interno"})
}
