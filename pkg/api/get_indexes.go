package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetIndexes handles GET requests to retrieve all indexes of a database
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	dbName := mux.Vars(r)["db"]

	db, err := h.engine.Open(dbName)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	indexes := db.Indexes()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"database":    dbName,
		"indexes":     indexes,
		"index_count": len(indexes),
	})
}
