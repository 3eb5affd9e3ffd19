package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docsync/pkg/domain"
	"github.com/adfharrison1/go-docsync/pkg/storage"
)

// SyncDocsResponse is the document listing served to replicating peers.
// LastSeq lets a peer ask for later changes only with ?since=.
type SyncDocsResponse struct {
	storage.DocsResponse
	LastSeq uint64 `json:"last_seq"`
}

// HandleListDocs handles GET requests listing a database's documents for a
// pulling peer
func (h *Handler) HandleListDocs(w http.ResponseWriter, r *http.Request) {
	dbName := mux.Vars(r)["db"]

	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "since must be a sequence number")
			return
		}
		since = parsed
	}

	db, err := h.engine.Open(dbName)
	if err != nil {
		h.logger.Errorw("Opening database for sync failed", "database", dbName, "error", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	changes, lastSeq := db.Changes(since)
	response := SyncDocsResponse{
		DocsResponse: storage.DocsResponse{Docs: make([]domain.QueryResultRecord, 0, len(changes))},
		LastSeq:      lastSeq,
	}
	for _, change := range changes {
		response.Docs = append(response.Docs, domain.QueryResultRecord{ID: change.ID, Doc: change.Doc})
	}

	h.logger.Debugw("Served documents to peer", "database", dbName, "since", since, "count", len(response.Docs))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandlePutDoc handles PUT requests storing a document pushed by a peer
func (h *Handler) HandlePutDoc(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	docID := vars["id"]

	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil || doc == nil {
		h.logger.Warnw("Decoding pushed document failed", "database", dbName, "id", docID, "error", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	db, err := h.engine.Open(dbName)
	if err != nil {
		h.logger.Errorw("Opening database for sync failed", "database", dbName, "error", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	changed, err := db.ApplyRemote(docID, doc)
	if err != nil {
		h.logger.Errorw("Applying pushed document failed", "database", dbName, "id", docID, "error", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Debugw("Accepted document from peer", "database", dbName, "id", docID, "changed", changed)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      docID,
		"changed": changed,
	})
}
