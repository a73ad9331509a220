// Command shadow_compare replays read-only dashboard requests against both
// the legacy Next.js route handlers and this API and reports contract
// drift. Volatile fields such as updated_at are ignored during body
// comparison.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type endpoint struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type manifest struct {
	Endpoints []endpoint `json:"endpoints"`
}

type result struct {
	Endpoint     endpoint
	LegacyStatus int
	GoStatus     int
	StatusMatch  bool
	BodyMatch    bool
	Err          error
	GoDuration   time.Duration
	LegacyDur    time.Duration
}

// volatileKeys are dropped from both bodies before comparison; they differ
// legitimately between the two backends.
var volatileKeys = map[string]bool{
	"updated_at": true,
	"expiresIn":  true,
}

func main() {
	var (
		goBase     string
		legacyBase string
		listPath   string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go dashboard API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "Legacy dashboard base URL")
	flag.StringVar(&listPath, "endpoints", filepath.Join("scripts", "shadow_compare", "endpoints.json"), "Path to JSON endpoint manifest")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	endpoints, err := loadManifest(listPath)
	if err != nil {
		log.Fatalf("failed to load endpoint manifest: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	breaking := 0
	for _, ep := range endpoints {
		res := compare(client, goBase, legacyBase, ep)
		if ep.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
		results = append(results, res)
	}

	report(results)
	fmt.Printf("Breaking diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadManifest(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints defined in %s", path)
	}
	return m.Endpoints, nil
}

func compare(client *http.Client, goBase, legacyBase string, ep endpoint) result {
	res := result{Endpoint: ep}

	goBody, goStatus, goDur, err := fetch(client, goBase, ep)
	if err != nil {
		res.Err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyDur, err := fetch(client, legacyBase, ep)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.GoDuration = goDur
	res.LegacyDur = legacyDur
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base string, ep endpoint) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := ep.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	scrub(&aj)
	scrub(&bj)
	return reflect.DeepEqual(aj, bj)
}

// scrub removes volatile keys and collapses whole-number floats so the two
// JSON encoders compare equal.
func scrub(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if volatileKeys[k] {
				delete(val, k)
				continue
			}
			scrub(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			scrub(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(results []result) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Endpoint.Method, res.Endpoint.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Go: %d (%s) | Legacy: %d (%s)\n", res.GoStatus, res.GoDuration, res.LegacyStatus, res.LegacyDur)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Endpoint.Critical)
	}
}
