package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// CallResponse wraps a successful bridge call result
type CallResponse struct {
	Result interface{} `json:"result"`
}

// HandleCall handles POST requests invoking a bridge method. The JSON body
// is the argument bag and may be empty.
func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	method := mux.Vars(r)["method"]

	var args map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warnw("Decoding call arguments failed", "method", method, "error", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.bridge.Invoke(r.Context(), method, args)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CallResponse{Result: result})
}

// HandleMethods lists the callable bridge methods
func (h *Handler) HandleMethods(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"methods": h.bridge.Methods()})
}
