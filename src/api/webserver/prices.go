package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/prices"
)

// Prices proxies the crypto price feed.
type Prices struct {
	client *prices.Client
}

func NewPrices(client *prices.Client) Prices {
	return Prices{client: client}
}

func (p Prices) Spot(c *gin.Context) {
	raw := c.DefaultQuery("assets", "bitcoin,ethereum")
	assets := make([]string, 0, 8)
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			assets = append(assets, a)
		}
	}
	if len(assets) == 0 || len(assets) > 25 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "between 1 and 25 assets required"})
		return
	}

	quotes, err := p.client.Spot(c.Request.Context(), assets)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}
