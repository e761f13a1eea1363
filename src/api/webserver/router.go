package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/api/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, deps Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	statusH := NewStatus(deps.Ledger)
	authH := NewAuth(cfg.ServiceKey, []byte(cfg.JWTSecret))
	taskH := NewTasks(deps.Ledger)
	orderH := NewOrders(deps.Store, deps.Worker, deps.Notifier)
	researchH := NewResearch(deps.Pipeline, deps.Notifier)
	priceH := NewPrices(deps.Prices)
	socialH := NewSocial(deps.Social)

	// Read-only surface stays open, like the original service.
	r.GET("/", statusH.Root)
	r.GET("/healthz", statusH.Health)
	r.GET("/status", statusH.Snapshot)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/token", authH.Token)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.POST("/task/start", taskH.Start)
		secured.POST("/task/complete", taskH.Complete)

		secured.POST("/orders", orderH.Create)
		secured.GET("/orders", orderH.List)
		secured.GET("/orders/:id", orderH.Get)
		secured.POST("/orders/:id/generate", orderH.Generate)
		secured.POST("/orders/:id/deliver", orderH.Deliver)

		secured.POST("/research", researchH.Run)
		secured.GET("/prices", priceH.Spot)
		secured.POST("/social/post", socialH.Post)
	}
}
