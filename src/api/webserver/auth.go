package webserver

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Auth exchanges the configured service key for a short-lived JWT.
type Auth struct {
	serviceKey string
	jwtSecret  []byte
}

func NewAuth(serviceKey string, secret []byte) Auth {
	return Auth{serviceKey: serviceKey, jwtSecret: secret}
}

func (a Auth) Token(c *gin.Context) {
	var req struct {
		ServiceKey string `json:"service_key" binding:"required"`
		Subject    string `json:"subject" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if a.serviceKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "service key not configured"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.ServiceKey), []byte(a.serviceKey)) != 1 {
		log.Printf("auth: bad service key from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad service key"})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "agent"
	}
	token, err := issueJWT(subject, a.jwtSecret)
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
