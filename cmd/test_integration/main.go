package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

func node(typeTag, label string, children ...map[string]any) map[string]any {
	n := map[string]any{"type": typeTag, "label": label}
	if len(children) > 0 {
		n["children"] = children
	}
	return n
}

func forest(methods ...string) map[string]any {
	var children []map[string]any
	for _, m := range methods {
		children = append(children, node("Method", m))
	}
	return map[string]any{
		"resources": []map[string]any{{
			"name":  "src/Foo.java",
			"roots": []map[string]any{node("Class", "Foo", children...)},
		}},
	}
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health check...")
	if _, ok := sendRequest("GET", "/healthz", nil, http.StatusOK); !ok {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Comparing documents...")
	payload := map[string]any{
		"left":  forest("run", "stop"),
		"right": forest("run", "close"),
	}
	body, ok := sendRequest("POST", "/compare", payload, http.StatusOK)
	if !ok {
		fmt.Println("FAILED: Compare")
		os.Exit(1)
	}

	var resp struct {
		ID      string `json:"id"`
		Summary struct {
			Counts struct {
				Matched   int `json:"matched"`
				LeftOnly  int `json:"left_only"`
				RightOnly int `json:"right_only"`
			} `json:"counts"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fmt.Printf("FAILED: Compare response: %v\n", err)
		os.Exit(1)
	}
	c := resp.Summary.Counts
	if c.Matched != 2 || c.LeftOnly != 1 || c.RightOnly != 1 {
		fmt.Printf("FAILED: unexpected counts %+v\n", c)
		os.Exit(1)
	}
	fmt.Printf("PASSED: Compare (%s)\n", resp.ID)

	// Snapshots only work when the server reached Memgraph.
	fmt.Println("3. Snapshots...")
	suffix := fmt.Sprintf("%d", time.Now().Unix())
	left, right := "smoke-left-"+suffix, "smoke-right-"+suffix
	if _, ok := sendRequest("POST", "/snapshots/"+left, forest("run", "stop"), http.StatusCreated); !ok {
		fmt.Println("SKIPPED: Snapshots (no store)")
		return
	}
	if _, ok := sendRequest("POST", "/snapshots/"+right, forest("run", "close"), http.StatusCreated); !ok {
		fmt.Println("FAILED: Save snapshot")
		os.Exit(1)
	}
	if _, ok := sendRequest("POST", "/compare/snapshots", map[string]string{"left": left, "right": right}, http.StatusOK); !ok {
		fmt.Println("FAILED: Compare snapshots")
		os.Exit(1)
	}
	fmt.Println("PASSED: Snapshots")
}

func sendRequest(method, endpoint string, payload any, want int) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
