package webserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zenc-cp/clawwork-cloud-api/src/notify"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
)

// Orders drives the marketplace order lifecycle over HTTP.
type Orders struct {
	store     *orders.Store
	worker    *orders.Worker
	notifier  *notify.Notifier
	sanitizer *bluemonday.Policy
}

func NewOrders(store *orders.Store, worker *orders.Worker, notifier *notify.Notifier) Orders {
	return Orders{
		store:     store,
		worker:    worker,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (o Orders) Create(c *gin.Context) {
	var req struct {
		GigType      string `json:"gig_type" binding:"required,max=64"`
		Buyer        string `json:"buyer" binding:"required,max=128"`
		Requirements string `json:"requirements" binding:"max=4000"`
		Industry     string `json:"industry" binding:"max=128"`
		TargetMarket string `json:"target_market" binding:"max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	order := o.store.Create(orders.NewOrder{
		GigType:      req.GigType,
		Buyer:        o.sanitizer.Sanitize(req.Buyer),
		Requirements: o.sanitizer.Sanitize(req.Requirements),
		Industry:     o.sanitizer.Sanitize(req.Industry),
		TargetMarket: o.sanitizer.Sanitize(req.TargetMarket),
	})

	// Deliverable generation happens off the request path; callers
	// observe completion by polling the order.
	o.worker.Enqueue(order.ID)

	c.JSON(http.StatusCreated, order)
}

func (o Orders) Get(c *gin.Context) {
	order, err := o.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (o Orders) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": o.store.List()})
}

// Generate attaches an externally produced deliverable. The background
// worker uses the same lifecycle transition internally.
func (o Orders) Generate(c *gin.Context) {
	var req struct {
		Payload string `json:"payload" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	id := c.Param("id")
	switch err := o.store.SetDeliverable(id, req.Payload); {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "order not found"})
	case errors.Is(err, orders.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	default:
		order, _ := o.store.Get(id)
		c.JSON(http.StatusOK, order)
	}
}

func (o Orders) Deliver(c *gin.Context) {
	id := c.Param("id")
	order, price, err := o.store.Deliver(id)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "order not found"})
		return
	case errors.Is(err, orders.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	if o.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			o.notifier.Publish(ctx, "order_delivered", map[string]any{
				"order_id": order.ID,
				"gig_type": order.GigType,
				"buyer":    order.Buyer,
				"price":    price,
			})
		}()
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "credited": price})
}
