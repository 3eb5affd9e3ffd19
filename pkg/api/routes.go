package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Call-bridge
	router.HandleFunc("/call", h.HandleMethods).Methods("GET")
	router.HandleFunc("/call/{method}", h.HandleCall).Methods("POST")

	// Sync endpoint for replicating peers
	router.HandleFunc("/db/{db}/_docs", h.HandleListDocs).Methods("GET")
	// ids may contain slashes
	router.HandleFunc("/db/{db}/_docs/{id:.+}", h.HandlePutDoc).Methods("PUT")

	// Index operations
	router.HandleFunc("/db/{db}/_indexes", h.HandleGetIndexes).Methods("GET")
	router.HandleFunc("/db/{db}/_indexes/{field}", h.HandleCreateIndex).Methods("POST")
}
