package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"keepara/store"
)

// Validation functions

// validateName validates that a name is not empty or just whitespace
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// parseIDParam parses the :id path parameter and enforces the
// positive-integer rule before any store call is issued.
func parseIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || store.ValidateID(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrInvalidID.Error()})
		return 0, false
	}
	return id, true
}

// handleStoreError converts store errors to appropriate HTTP responses
func handleStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	default:
		log.Printf("Error %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// matchesAny reports whether the search term appears in any of the given
// fields. An empty term matches everything, so filtering stays
// non-destructive: clearing the filter returns the full collection.
func matchesAny(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, term) {
			return true
		}
	}
	return false
}
