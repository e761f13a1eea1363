package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
)

// Status serves the read-only surface.
type Status struct {
	ledger *economics.Ledger
}

func NewStatus(ledger *economics.Ledger) Status {
	return Status{ledger: ledger}
}

func (s Status) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ClawWork + OpenClaw API",
		"status":  "active",
		"version": "2.0.0",
	})
}

func (s Status) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s Status) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Snapshot())
}
