package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:8080"

var (
	apiBase     string
	client      = &http.Client{Timeout: 30 * time.Second}
	downloadURL string
	fileName    string
)

func main() {
	fmt.Println("=== Melon Analytics E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Generate Report", testGenerateReport},
		{"Download Report", testDownloadReport},
		{"Missing Parameters", testMissingParameters},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := client.Get(apiBase + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testGenerateReport() error {
	endDate := time.Now().Format("2006-01-02")
	startDate := time.Now().AddDate(0, -1, 0).Format("2006-01-02")

	payload := map[string]string{
		"startDate": startDate,
		"endDate":   endDate,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := client.Post(apiBase+"/reports/analytics", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The seeded environment may legitimately have no records in range
	if resp.StatusCode == http.StatusNotFound {
		fmt.Printf("(no data in range, skipping download) ")
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			DownloadURL string `json:"downloadUrl"`
			FileName    string `json:"fileName"`
			ExpiresIn   int    `json:"expiresIn"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if !result.Success || result.Data.DownloadURL == "" {
		return fmt.Errorf("unexpected payload: success=%t url=%q", result.Success, result.Data.DownloadURL)
	}
	if result.Data.ExpiresIn != 3600 {
		return fmt.Errorf("expected expiresIn=3600, got %d", result.Data.ExpiresIn)
	}
	if !strings.HasPrefix(result.Data.FileName, "analytics-report-") {
		return fmt.Errorf("unexpected file name %q", result.Data.FileName)
	}

	downloadURL = result.Data.DownloadURL
	fileName = result.Data.FileName
	return nil
}

func testDownloadReport() error {
	if downloadURL == "" {
		return nil // generate step was skipped
	}

	resp, err := client.Get(downloadURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("%s: expected a PDF document, got %d bytes starting %q", fileName, len(data), firstBytes(data))
	}

	return nil
}

func testMissingParameters() error {
	resp, err := client.Post(apiBase+"/reports/analytics", "application/json", strings.NewReader(`{}`))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Success || result.Error.Code != "MISSING_PARAMETERS" {
		return fmt.Errorf("unexpected error payload: %+v", result)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func firstBytes(data []byte) []byte {
	if len(data) > 8 {
		return data[:8]
	}
	return data
}
