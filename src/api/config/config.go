package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/social"
)

// Config carries everything the API service reads from the
// environment. Social credentials are validated at use, not here: a
// missing credential fails the signed call, never the process.
type Config struct {
	Port           string
	InitialBalance float64
	ServiceKey     string
	JWTSecret      string
	RedisURL       string
	WebhookURL     string
	UserID         string
	QueryDelay     time.Duration
	Social         social.Credentials
}

// Load reads the configuration from the environment with defaults.
func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	initialBalance := 10.0
	if raw := os.Getenv("INITIAL_BALANCE"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Printf("config: bad INITIAL_BALANCE %q, using %.2f", raw, initialBalance)
		} else {
			initialBalance = v
		}
	}

	queryDelay := 2 * time.Second
	if raw := os.Getenv("QUERY_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("config: bad QUERY_DELAY %q, using %s", raw, queryDelay)
		} else {
			queryDelay = d
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
		log.Printf("config: JWT_SECRET not set, using development default")
	}

	serviceKey := os.Getenv("SERVICE_KEY")
	if serviceKey == "" {
		log.Printf("config: SERVICE_KEY not set, token endpoint disabled")
	}

	return Config{
		Port:           port,
		InitialBalance: initialBalance,
		ServiceKey:     serviceKey,
		JWTSecret:      jwtSecret,
		RedisURL:       os.Getenv("REDIS_URL"),
		WebhookURL:     os.Getenv("N8N_WEBHOOK"),
		UserID:         os.Getenv("SOCIAL_USER_ID"),
		QueryDelay:     queryDelay,
		Social: social.Credentials{
			ConsumerKey:    os.Getenv("SOCIAL_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("SOCIAL_CONSUMER_SECRET"),
			AccessToken:    os.Getenv("SOCIAL_ACCESS_TOKEN"),
			AccessSecret:   os.Getenv("SOCIAL_ACCESS_SECRET"),
		},
	}
}
