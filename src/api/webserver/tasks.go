package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
)

// Tasks exposes the raw cost/income tracking used by external
// automation (browser tasks and the like).
type Tasks struct {
	ledger *economics.Ledger
}

func NewTasks(ledger *economics.Ledger) Tasks {
	return Tasks{ledger: ledger}
}

func (t Tasks) Start(c *gin.Context) {
	var req struct {
		TaskID        string   `json:"task_id" binding:"required,max=128"`
		TaskType      string   `json:"task_type" binding:"max=64"`
		EstimatedCost *float64 `json:"estimated_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if req.EstimatedCost != nil {
		if err := t.ledger.TrackCost(*req.EstimatedCost); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id":         req.TaskID,
		"status":          "started",
		"current_balance": t.ledger.Snapshot().Balance,
	})
}

func (t Tasks) Complete(c *gin.Context) {
	var req struct {
		TaskID        string  `json:"task_id" binding:"required,max=128"`
		Success       *bool   `json:"success" binding:"required"`
		ActualCost    float64 `json:"actual_cost"`
		ActualRevenue float64 `json:"actual_revenue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	status := "completed"
	if *req.Success {
		if err := t.ledger.TrackIncome(req.ActualRevenue); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
	} else {
		t.ledger.MarkFailed()
		status = "failed"
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id":   req.TaskID,
		"status":    status,
		"economics": t.ledger.Snapshot(),
	})
}
