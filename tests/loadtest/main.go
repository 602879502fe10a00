package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var exerciseIDs = []string{
	"walking-in-place", "arm-stretch", "neck-stretch", "shoulder-circles", "deep-breathing",
	"wall-push-up", "seated-arm-raise", "ankle-rotation", "chair-squat", "single-leg-balance",
}

var categories = []string{"", "All", "Cardio", "Strength", "Flexibility", "Balance"}

var sorts = []string{"recommended", "duration", "difficulty"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== VivaFit Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: catalog reads, mostly served from the response cache
	fmt.Println("\n--- Phase 1: Catalog reads (GET /exercises, /tips) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return doListExercises(rng)
		}
		return doGet("GET /tips", "/tips?category="+categories[rng.Intn(len(categories))])
	})

	// Phase 2: workout session churn against the single device session
	fmt.Println("\n--- Phase 2: Workout controls (start/toggle/skip/get/finish) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doStartWorkout(rng)
		case r < 0.40:
			return doGet("GET /workout", "/workout")
		case r < 0.65:
			return doPost("POST /workout/toggle", "/workout/toggle", "", http.StatusOK, http.StatusNotFound, http.StatusConflict)
		case r < 0.90:
			return doPost("POST /workout/skip", "/workout/skip", "", http.StatusOK, http.StatusNotFound, http.StatusConflict, http.StatusTooManyRequests)
		default:
			return doPost("POST /workout/finish", "/workout/finish", "", http.StatusCreated, http.StatusNotFound, http.StatusConflict, http.StatusTooManyRequests)
		}
	})

	// Phase 3: mixed load
	fmt.Println("\n--- Phase 3: Mixed load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doListExercises(rng)
		case r < 0.55:
			return doGet("GET /exercises/{id}", "/exercises/"+exerciseIDs[rng.Intn(len(exerciseIDs))])
		case r < 0.70:
			return doGet("GET /history", "/history")
		case r < 0.80:
			return doGet("GET /progress", "/progress")
		case r < 0.90:
			return doGet("GET /achievements", "/achievements")
		default:
			return doGet("GET /workout", "/workout", http.StatusOK, http.StatusNotFound)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doListExercises(rng *rand.Rand) result {
	url := fmt.Sprintf("/exercises?category=%s&sort=%s",
		categories[rng.Intn(len(categories))], sorts[rng.Intn(len(sorts))])
	return doGet("GET /exercises", url)
}

func doStartWorkout(rng *rand.Rand) result {
	body := ""
	if rng.Float64() < 0.7 {
		body = fmt.Sprintf(`{"exerciseId":%q}`, exerciseIDs[rng.Intn(len(exerciseIDs))])
	}
	return doPost("POST /workout", "/workout", body, http.StatusCreated)
}

// doGet treats any status outside ok (default 200) as an error.
func doGet(endpoint, path string, ok ...int) result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+path, nil)
	return send(endpoint, req, ok)
}

func doPost(endpoint, path, body string, ok ...int) result {
	req, _ := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return send(endpoint, req, ok)
}

func send(endpoint string, req *http.Request, ok []int) result {
	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	failed := true
	for _, code := range ok {
		if resp.StatusCode == code {
			failed = false
			break
		}
	}
	return result{endpoint, resp.StatusCode, lat, failed}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
