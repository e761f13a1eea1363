package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/api/config"
	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
	"github.com/zenc-cp/clawwork-cloud-api/src/notify"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
	"github.com/zenc-cp/clawwork-cloud-api/src/prices"
	"github.com/zenc-cp/clawwork-cloud-api/src/research"
	"github.com/zenc-cp/clawwork-cloud-api/src/social"
)

// Deps bundles the constructed core components the handlers need.
type Deps struct {
	Ledger   *economics.Ledger
	Store    *orders.Store
	Worker   *orders.Worker
	Pipeline *research.Pipeline
	Prices   *prices.Client
	Social   *social.Client // nil when credentials are not configured
	Notifier *notify.Notifier
}

// New assembles the gin engine with all routes attached.
func New(cfg config.Config, deps Deps) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, deps)
	return g
}
