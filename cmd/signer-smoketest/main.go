package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/social"
)

var (
	methodFlag  = flag.String("method", "POST", "HTTP method to sign")
	urlFlag     = flag.String("url", "https://api.twitter.com/1.1/statuses/update.json", "Request URL to sign")
	statusFlag  = flag.String("status", "smoke test", "Status text included as a signed parameter")
	verifyFlag  = flag.Bool("verify", false, "Also call verify_credentials against the live API")
	timeoutFlag = flag.Duration("timeout", 30*time.Second, "Timeout for the live verify call")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	creds := social.Credentials{
		ConsumerKey:    os.Getenv("SOCIAL_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("SOCIAL_CONSUMER_SECRET"),
		AccessToken:    os.Getenv("SOCIAL_ACCESS_TOKEN"),
		AccessSecret:   os.Getenv("SOCIAL_ACCESS_SECRET"),
	}

	signer, err := social.NewSigner(creds)
	if err != nil {
		log.Fatalf("signer: %v", err)
	}

	params := map[string]string{}
	if *statusFlag != "" {
		params["status"] = *statusFlag
	}

	header, err := signer.AuthorizationHeader(*methodFlag, *urlFlag, params)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}

	fmt.Printf("%s %s\n", *methodFlag, *urlFlag)
	for k, v := range params {
		fmt.Printf("  param %s=%s\n", k, v)
	}
	fmt.Printf("Authorization: %s\n", header)

	if !*verifyFlag {
		return
	}

	client, err := social.NewClient(creds)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	acct, err := client.VerifyCredentials(ctx)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	fmt.Printf("verified as @%s (id %d)\n", acct.ScreenName, acct.ID)
}
