// Load generator for the todo backend. Each virtual user loops through the
// full journey (register, login, create, list, delete) against a base URL and
// the tool reports counts, error rate, and p95 latency per endpoint group.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

type sample struct {
	group   string
	latency time.Duration
	failed  bool
}

type collector struct {
	mu      sync.Mutex
	samples []sample
}

func (c *collector) add(s sample) {
	c.mu.Lock()
	c.samples = append(c.samples, s)
	c.mu.Unlock()
}

func main() {
	baseURL := flag.String("url", "http://localhost:4000", "base URL of the backend")
	vus := flag.Int("vus", 10, "number of concurrent virtual users")
	duration := flag.Duration("duration", time.Minute, "test duration")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	col := &collector{}
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	for i := 0; i < *vus; i++ {
		wg.Add(1)
		go func(vu int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(vu)))
			for time.Now().Before(deadline) {
				runJourney(client, *baseURL, vu, rng, col)
				time.Sleep(time.Duration(500+rng.Intn(1000)) * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	report(col)
}

func runJourney(client *http.Client, base string, vu int, rng *rand.Rand, col *collector) {
	suffix := fmt.Sprintf("%d_%d", vu, rng.Int63())
	username := "loaduser_" + suffix

	token, ok := timedJSON(client, col, "auth", http.MethodPost, base+"/register", map[string]any{
		"username": username,
		"email":    username + "@test.com",
		"password": "password123",
		"name":     "Load User",
	}, "", func(body []byte) (string, bool) {
		var resp struct {
			Token string `json:"token"`
		}
		if json.Unmarshal(body, &resp) != nil || resp.Token == "" {
			return "", false
		}
		return resp.Token, true
	})
	if !ok {
		return
	}

	// Exercise login with the same credentials.
	timedJSON(client, col, "auth", http.MethodPost, base+"/login", map[string]any{
		"usernameOrEmail": username,
		"password":        "password123",
	}, "", nil)

	todoID, ok := timedJSON(client, col, "todo", http.MethodPost, base+"/todos", map[string]any{
		"text": fmt.Sprintf("todo %s", suffix),
	}, token, func(body []byte) (string, bool) {
		var todo struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(body, &todo) != nil || todo.ID == "" {
			return "", false
		}
		return todo.ID, true
	})
	if !ok {
		return
	}

	timedJSON(client, col, "todo", http.MethodGet, base+"/todos", nil, token, nil)
	timedJSON(client, col, "todo", http.MethodDelete, base+"/todos/"+todoID, nil, token, nil)
}

// timedJSON issues one request, records a sample, and optionally extracts a
// value from a 2xx body.
func timedJSON(client *http.Client, col *collector, group, method, url string, payload map[string]any, token string, extract func([]byte) (string, bool)) (string, bool) {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		col.add(sample{group: group, failed: true})
		return "", false
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		col.add(sample{group: group, latency: elapsed, failed: true})
		return "", false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	failed := resp.StatusCode >= 400
	col.add(sample{group: group, latency: elapsed, failed: failed})
	if failed || extract == nil {
		return "", !failed
	}
	return extract(respBody)
}

func report(col *collector) {
	col.mu.Lock()
	defer col.mu.Unlock()

	groups := map[string][]sample{}
	for _, s := range col.samples {
		groups[s.group] = append(groups[s.group], s)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	total, failures := 0, 0
	for _, name := range names {
		ss := groups[name]
		lats := make([]time.Duration, 0, len(ss))
		groupFailures := 0
		for _, s := range ss {
			lats = append(lats, s.latency)
			if s.failed {
				groupFailures++
			}
		}
		sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })
		p95 := lats[len(lats)*95/100]
		fmt.Printf("%-6s requests=%-6d errors=%-5d p95=%s\n", name, len(ss), groupFailures, p95)
		total += len(ss)
		failures += groupFailures
	}

	rate := 0.0
	if total > 0 {
		rate = float64(failures) / float64(total)
	}
	fmt.Printf("total  requests=%-6d errors=%-5d error_rate=%.2f%%\n", total, failures, rate*100)
	if rate >= 0.1 {
		fmt.Fprintln(os.Stderr, "error rate above 10% threshold")
		os.Exit(1)
	}
}
