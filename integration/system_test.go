//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_CartFlow(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var items []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/items", nil, &items, 200)
	if len(items) == 0 {
		t.Fatalf("expected non-empty catalog")
	}

	name, _ := items[0]["name"].(string)
	if name == "" {
		t.Fatalf("item name missing in response: %#v", items[0])
	}

	var sess struct {
		SessionID   string `json:"session_id"`
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/sessions", nil, &sess, 201)
	if sess.AccessToken == "" {
		t.Fatalf("empty access_token")
	}

	var results []map[string]any
	doJSONAuth(t, http.MethodGet, baseURL+"/items/search?name="+url.QueryEscape(name), sess.AccessToken, nil, &results, 200)
	if len(results) == 0 {
		t.Fatalf("search for %q returned nothing", name)
	}

	var added map[string]any
	doJSONAuth(t, http.MethodPost, baseURL+"/cart/items", sess.AccessToken, map[string]any{
		"name": name,
	}, &added, 201)
	if added["name"] != name {
		t.Fatalf("added=%#v want name %q", added, name)
	}

	doJSONAuth(t, http.MethodPost, baseURL+"/cart/items", sess.AccessToken, map[string]any{
		"name": name,
	}, nil, 409)

	var created map[string]any
	doJSONAuth(t, http.MethodPost, baseURL+"/checkout", sess.AccessToken, nil, &created, 201)

	receiptID, _ := created["id"].(string)
	if receiptID == "" {
		t.Fatalf("receipt id missing: %#v", created)
	}

	var got map[string]any
	doJSONAuth(t, http.MethodGet, baseURL+"/receipts/"+receiptID, sess.AccessToken, nil, &got, 200)

	if os.Getenv("E2E_RESTART_SHOP") == "1" {
		restartShopContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		// Sessions live in memory and do not survive a restart.
		doJSONAuth(t, http.MethodGet, baseURL+"/cart", sess.AccessToken, nil, nil, 401)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()
	doJSONAuth(t, method, url, "", body, out, want)
}

func doJSONAuth(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
