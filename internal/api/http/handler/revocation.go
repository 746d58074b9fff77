package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/todo-server/internal/revocation"
)

// RevocationRegistry exposes registry maintenance for diagnostics.
type RevocationRegistry interface {
	Sweep(now time.Time) int
	Stats() revocation.Stats
}

type revocationStatsResponse struct {
	Entries int `json:"entries"`
	Removed int `json:"removed"`
}

// Revocation serves revocation registry diagnostics.
type Revocation struct {
	registry RevocationRegistry
	now      func() time.Time
}

// NewRevocation creates a new Revocation handler.
func NewRevocation(registry RevocationRegistry) *Revocation {
	return &Revocation{registry: registry, now: time.Now}
}

// Stats sweeps expired entries and reports what is left.
func (h *Revocation) Stats(c *gin.Context) {
	removed := h.registry.Sweep(h.now())

	c.JSON(http.StatusOK, revocationStatsResponse{
		Entries: h.registry.Stats().Entries,
		Removed: removed,
	})
}
