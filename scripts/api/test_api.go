// Minimal end-to-end integration test for the ClawWork API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

var (
	baseURL    = getenv("API_URL", "http://localhost:8080")
	serviceKey = getenv("SERVICE_KEY", "dev-service-key")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	checkHealth()
	token := fetchToken()

	runTask(token)
	orderID := createOrder(token)
	waitReady(token, orderID)
	deliver(token, orderID)
	checkStatus()

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func fetchToken() string {
	var resp struct{ Token string }
	doJSON("POST", "/v1/auth/token", map[string]any{
		"service_key": serviceKey,
		"subject":     "integration-test",
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("auth: empty token")
	}
	return resp.Token
}

// ----------------------------- tasks

func runTask(tok string) {
	taskID := "itest_" + uuid.NewString()
	doAuth(tok, "POST", "/v1/task/start", map[string]any{
		"task_id":        taskID,
		"task_type":      "integration",
		"estimated_cost": 0.5,
	}, nil, http.StatusOK)

	var resp struct{ Status string }
	doAuth(tok, "POST", "/v1/task/complete", map[string]any{
		"task_id":        taskID,
		"success":        true,
		"actual_revenue": 25.0,
	}, &resp, http.StatusOK)
	if resp.Status != "completed" {
		log.Fatalf("task: want completed got %s", resp.Status)
	}
}

// ----------------------------- orders

func createOrder(tok string) string {
	var resp struct {
		OrderID string `json:"order_id"`
	}
	doAuth(tok, "POST", "/v1/orders", map[string]any{
		"gig_type":     "standard",
		"buyer":        "integration-test",
		"requirements": "smoke " + uuid.NewString(),
		"industry":     "technology",
	}, &resp, http.StatusCreated)
	if resp.OrderID == "" {
		log.Fatal("orders: empty order id")
	}
	return resp.OrderID
}

func waitReady(tok, id string) {
	deadline := time.Now().Add(3 * time.Minute)
	for {
		var resp struct{ Status string }
		doAuth(tok, "GET", "/v1/orders/"+id, nil, &resp, http.StatusOK)
		switch resp.Status {
		case "ready_for_delivery":
			return
		case "in_progress":
		default:
			log.Fatalf("orders: %s entered %s", id, resp.Status)
		}
		if time.Now().After(deadline) {
			log.Fatalf("orders: %s never became ready", id)
		}
		time.Sleep(5 * time.Second)
	}
}

func deliver(tok, id string) {
	var resp struct{ Credited float64 }
	doAuth(tok, "POST", "/v1/orders/"+id+"/deliver", nil, &resp, http.StatusOK)
	if resp.Credited <= 0 {
		log.Fatal("deliver: nothing credited")
	}
	// A second delivery must conflict, not double-credit.
	doAuth(tok, "POST", "/v1/orders/"+id+"/deliver", nil, nil, http.StatusConflict)
}

// ----------------------------- status

func checkHealth() {
	doJSON("GET", "/healthz", nil, nil, http.StatusOK)
}

func checkStatus() {
	var resp struct {
		Balance float64 `json:"balance"`
		Status  string  `json:"status"`
	}
	doJSON("GET", "/status", nil, &resp, http.StatusOK)
	if resp.Status == "" {
		log.Fatal("status: empty economic status")
	}
	fmt.Printf("balance %.2f (%s)\n", resp.Balance, resp.Status)
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
