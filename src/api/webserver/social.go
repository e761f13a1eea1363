package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenc-cp/clawwork-cloud-api/src/social"
)

// Social posts status updates through the signed API client.
type Social struct {
	client *social.Client
}

func NewSocial(client *social.Client) Social {
	return Social{client: client}
}

func (s Social) Post(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required,min=1,max=280"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	// Credentials were absent at startup: a configuration error for
	// this call only, not a process failure.
	if s.client == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": social.ErrMissingCredentials.Error()})
		return
	}

	status, err := s.client.PostStatus(c.Request.Context(), req.Text)
	if err != nil {
		log.Printf("social: post failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"err": "social API call failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": status.ID, "text": status.Text})
}
