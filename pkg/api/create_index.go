package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// HandleCreateIndex creates an index on a specific field of a database
func (h *Handler) HandleCreateIndex(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	fieldName := vars["field"]

	// the id is always indexed
	if fieldName == domain.MetaIDKey {
		WriteJSONError(w, http.StatusBadRequest, "cannot create index on _id field (automatically indexed)")
		return
	}

	db, err := h.engine.Open(dbName)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := db.CreateIndex(fieldName); err != nil {
		h.logger.Warnw("Create index failed", "database", dbName, "field", fieldName, "error", err)
		WriteJSONError(w, http.StatusConflict, err.Error())
		return
	}

	h.logger.Infow("Index created", "database", dbName, "field", fieldName)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"message":  "Index created successfully",
		"database": dbName,
		"field":    fieldName,
	})
}
