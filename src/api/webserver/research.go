package webserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zenc-cp/clawwork-cloud-api/src/notify"
	"github.com/zenc-cp/clawwork-cloud-api/src/research"
)

// Research runs the market research pipeline on demand.
type Research struct {
	pipeline  *research.Pipeline
	notifier  *notify.Notifier
	sanitizer *bluemonday.Policy
}

func NewResearch(pipeline *research.Pipeline, notifier *notify.Notifier) Research {
	return Research{
		pipeline:  pipeline,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (r Research) Run(c *gin.Context) {
	var req struct {
		Industry     string `json:"industry" binding:"required,min=2,max=128"`
		TargetMarket string `json:"target_market" binding:"max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.TargetMarket == "" {
		req.TargetMarket = "global"
	}

	report, err := r.pipeline.Run(c.Request.Context(),
		r.sanitizer.Sanitize(req.Industry),
		r.sanitizer.Sanitize(req.TargetMarket))
	if err != nil {
		log.Printf("research: run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "research run failed"})
		return
	}

	if r.notifier != nil {
		if err := c.Request.Context().Err(); err == nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				r.notifier.Publish(ctx, "report_completed", map[string]any{
					"task_id":  report.TaskID,
					"industry": report.Industry,
					"sections": len(report.Sections),
				})
			}()
		}
	}

	c.JSON(http.StatusOK, report)
}
