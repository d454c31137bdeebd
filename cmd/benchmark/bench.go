package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

// The mock upstream completes every prediction instantly so the benchmark
// measures the gateway, not the provider.
func startMockUpstream() {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			resp := map[string]any{
				"id":     fmt.Sprintf("bench-%d", time.Now().UnixNano()),
				"status": "succeeded",
				"output": []string{fmt.Sprintf("http://localhost:%d/artifact.webp", mockPort)},
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"owner": "black-forest-labs", "name": "flux-dev",
			"latest_version": map[string]string{"id": "bench-version"},
		})
	})

	mux.HandleFunc("/artifact.webp", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("RIFF....WEBP"))
	})

	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux))
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rps := flag.Int("rate", 50, "Requests per second")
	flag.Parse()

	go startMockUpstream()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	fmt.Println("Starting application...")
	appCmd := exec.Command("./bin/server")
	appCmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		fmt.Sprintf("SERVER_BASE_URL=http://localhost:%d", appPort),
		fmt.Sprintf("REPLICATE_BASE_URL=http://localhost:%d/v1", mockPort),
		"REPLICATE_API_TOKEN=bench-token",
		"DATABASE_DSN=file:bench.db?cache=shared&mode=rwc",
		"STORAGE_UPLOAD_DIR=bench_uploads",
		"RATE_LIMIT_REQUESTS_PER_SECOND=100000",
		"RATE_LIMIT_BURST=100000",
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	appCmd.Stdout = logFile
	appCmd.Stderr = logFile

	if err := appCmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if appCmd.Process != nil {
			_ = appCmd.Process.Kill()
		}
		_ = os.Remove("bench.db")
		_ = os.RemoveAll("bench_uploads")
	}()

	waitForHealthy(fmt.Sprintf("http://localhost:%d/health", appPort))

	body, _ := json.Marshal(map[string]string{"prompt": "a red cube on a white table"})
	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: "POST",
		URL:    fmt.Sprintf("http://localhost:%d/api/generate-image", appPort),
		Body:   body,
		Header: http.Header{"Content-Type": []string{"application/json"}},
	})

	attacker := vegeta.NewAttacker()
	rate := vegeta.Rate{Freq: *rps, Per: time.Second}

	fmt.Printf("Attacking for %s at %d rps...\n", *duration, *rps)
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, *duration, "generate-image") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Printf("Requests:  %d\n", metrics.Requests)
	fmt.Printf("Success:   %.2f%%\n", metrics.Success*100)
	fmt.Printf("p50:       %s\n", metrics.Latencies.P50)
	fmt.Printf("p99:       %s\n", metrics.Latencies.P99)
	fmt.Printf("Max:       %s\n", metrics.Latencies.Max)
	if len(metrics.Errors) > 0 {
		fmt.Printf("Errors:    %v\n", metrics.Errors)
	}
}

func waitForHealthy(url string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Fatal("app never became healthy")
}
