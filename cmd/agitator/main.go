// Package main - agitator
// Load generator: many concurrent owners spamming FEED/PLAY over WebSocket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	PlayRatio      float64
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent int64
	Results      int64
	Frames       int64
	Rejected     int64
	Errors       int64
	Latencies    []time.Duration
	mu           sync.Mutex
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent clients")
	interval := flag.Duration("interval", 200*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	playRatio := flag.Float64("play-ratio", 0.5, "Share of actions that are PLAY instead of FEED")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		PlayRatio:      *playRatio,
	}

	fmt.Println("=========================================")
	fmt.Println("🔥 AGITATOR - Pet Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\n⚠️ Interrupt received, stopping...")
		cancel()
	}()

	stats := runStressTest(ctx, config)
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\n🚀 Starting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("✅ All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("📊 Progress: Sent=%d Results=%d Frames=%d Rejected=%d Errors=%d\n",
					atomic.LoadInt64(&stats.MessagesSent),
					atomic.LoadInt64(&stats.Results),
					atomic.LoadInt64(&stats.Frames),
					atomic.LoadInt64(&stats.Rejected),
					atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	ownerID := fmt.Sprintf("OWNER_%03d", clientID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("Client %d: Connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	// Replies arrive in send order, so a FIFO of send times yields round-trip latency.
	var (
		pendingMu sync.Mutex
		pending   []time.Time
	)
	popPending := func() (time.Time, bool) {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		if len(pending) == 0 {
			return time.Time{}, false
		}
		t := pending[0]
		pending = pending[1:]
		return t, true
	}

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg envelope
			if err := json.Unmarshal(data, &msg); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			switch msg.Type {
			case "FRAME":
				atomic.AddInt64(&stats.Frames, 1)
			case "RESULT", "ERROR":
				if msg.Type == "RESULT" {
					atomic.AddInt64(&stats.Results, 1)
				} else {
					atomic.AddInt64(&stats.Rejected, 1)
				}
				if sent, ok := popPending(); ok {
					stats.mu.Lock()
					stats.Latencies = append(stats.Latencies, time.Since(sent))
					stats.mu.Unlock()
				}
			}
		}
	}()

	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			actionType := "FEED"
			if rand.Float64() < config.PlayRatio {
				actionType = "PLAY"
			}

			pendingMu.Lock()
			pending = append(pending, time.Now())
			pendingMu.Unlock()

			if err := conn.WriteJSON(map[string]string{"type": actionType, "actor_id": ownerID}); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}
			atomic.AddInt64(&stats.MessagesSent, 1)
		}
	}
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("📊 STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	results := atomic.LoadInt64(&stats.Results)
	frames := atomic.LoadInt64(&stats.Frames)
	rejected := atomic.LoadInt64(&stats.Rejected)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Actions Sent:      %d\n", sent)
	fmt.Printf("Results:           %d\n", results)
	fmt.Printf("Rejected:          %d\n", rejected)
	fmt.Printf("Frames Received:   %d\n", frames)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f actions/sec\n", throughput)

	stats.mu.Lock()
	latencies := append([]time.Duration(nil), stats.Latencies...)
	stats.mu.Unlock()

	var p50, p99 time.Duration
	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		p50 = latencies[len(latencies)/2]
		p99 = latencies[len(latencies)*99/100]

		fmt.Printf("\nRound trip:\n")
		fmt.Printf("  Min: %v\n", latencies[0])
		fmt.Printf("  P50: %v\n", p50)
		fmt.Printf("  P99: %v\n", p99)
		fmt.Printf("  Max: %v\n", latencies[len(latencies)-1])
	}

	fmt.Println("\n-----------------------------------------")
	if errs == 0 {
		fmt.Println("✅ TEST PASSED: System handled the load")
	} else if float64(errs)/float64(sent+1) < 0.05 {
		fmt.Println("⚠️ TEST WARNING: Some errors detected")
	} else {
		fmt.Println("❌ TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	out := map[string]interface{}{
		"actions_sent":       sent,
		"results":            results,
		"rejected":           rejected,
		"frames_received":    frames,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"latency_p50":        p50.String(),
		"latency_p99":        p99.String(),
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	os.WriteFile("stress_test_results.json", jsonData, 0644)
	fmt.Println("\n📁 Results saved to stress_test_results.json")
}
