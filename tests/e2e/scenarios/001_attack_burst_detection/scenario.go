package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ### Start - fixed configs (no change)
// These values define deterministic test traffic and must match expected results.
// DO NOT MODIFY: Changing these will break the scenario's deterministic behavior.
const (
	baselineLines   = 2000 // Normal traffic lines written before the burst
	burstLines      = 1500 // Attack burst lines (slow heavy-method calls, 5xx)
	baselineLatMS   = 40.0
	burstLatMS      = 900.0
	burstStatusCode = 503
)

var (
	normalMethods = []string{"getBlock", "getTransaction", "getBalance", "getSlot"}
	burstMethod   = "getProgramAccounts"
	burstIP       = "203.0.113.66"
)

// ### End - fixed configs

type callLine struct {
	Time   string  `json:"time"`
	IP     string  `json:"ip"`
	Method string  `json:"method"`
	LatMS  float64 `json:"lat_ms"`
	Status int     `json:"status"`
}

// main runs the e2e scenario: 001_attack_burst_detection
//
// This scenario tests the end-to-end flow of log tailing, window aggregation,
// trigger evaluation, and alert publication. It appends synthetic call-log
// lines to the file the agent tails: first a baseline of fast, clean traffic,
// then a burst of slow failing heavy-method calls from one source.
//
// What it tests:
//   - Live line pickup by the tailer (lines written after agent start)
//   - Per-method tumbling-window statistics and EWMA z-scores
//   - Trigger disjunction (the burst breaches p95, err_rate, and both z-scores)
//   - Alert publication on sentinel/diag with the burst method and a sample hash
//
// Expected results:
//   - Zero alerts during the baseline phase (defaults: p95 250ms, err_rate 0.05)
//   - At least one alert for getProgramAccounts during the burst phase
//   - Every alert carries a non-null sample for the bursting source
func main() {
	// these configs can be changed to run the scenario
	logPath := "/data/rpc.jsonl"         // File the agent tails
	brokerURL := "tcp://localhost:1883"  // MQTT broker the agent publishes to
	lineInterval := 2 * time.Millisecond // Delay between written lines
	settle := 3 * time.Second            // Wait after the burst before counting

	fmt.Println("Starting e2e scenario: 001_attack_burst_detection")
	fmt.Printf("LOG_PATH: %s\n", logPath)
	fmt.Printf("BROKER_URL: %s\n", brokerURL)
	fmt.Printf("BASELINE_LINES: %d\n", baselineLines)
	fmt.Printf("BURST_LINES: %d\n", burstLines)
	fmt.Println()

	var alertCount int64
	var sampleMissing int64

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("scenario-001-%d", time.Now().UnixNano()))
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		fmt.Fprintf(os.Stderr, "ERROR: MQTT connect failed: %v\n", token.Error())
		os.Exit(1)
	}
	defer client.Disconnect(250)

	token := client.Subscribe("sentinel/diag", 0, func(_ mqtt.Client, msg mqtt.Message) {
		var alert struct {
			Method string  `json:"method"`
			Sample *string `json:"sample"`
		}
		if err := json.Unmarshal(msg.Payload(), &alert); err != nil {
			return
		}
		if alert.Method != burstMethod {
			return
		}
		atomic.AddInt64(&alertCount, 1)
		if alert.Sample == nil {
			atomic.AddInt64(&sampleMissing, 1)
		}
	})
	if token.Wait() && token.Error() != nil {
		fmt.Fprintf(os.Stderr, "ERROR: subscribe failed: %v\n", token.Error())
		os.Exit(1)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	fmt.Printf("Writing %d baseline lines...\n", baselineLines)
	for i := 0; i < baselineLines; i++ {
		line := callLine{
			Time:   time.Now().UTC().Format(time.RFC3339),
			IP:     fmt.Sprintf("198.51.100.%d", i%250),
			Method: normalMethods[i%len(normalMethods)],
			LatMS:  baselineLatMS,
			Status: 200,
		}
		if err := writeLine(file, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: write failed: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(lineInterval)
	}

	baselineAlerts := atomic.LoadInt64(&alertCount)
	fmt.Printf("Baseline complete (alerts so far: %d)\n", baselineAlerts)
	fmt.Println()

	fmt.Printf("Writing %d burst lines...\n", burstLines)
	for i := 0; i < burstLines; i++ {
		line := callLine{
			Time:   time.Now().UTC().Format(time.RFC3339),
			IP:     burstIP,
			Method: burstMethod,
			LatMS:  burstLatMS,
			Status: burstStatusCode,
		}
		if err := writeLine(file, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: write failed: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(lineInterval)
	}

	fmt.Printf("Burst complete, settling for %s...\n", settle)
	time.Sleep(settle)

	alerts := atomic.LoadInt64(&alertCount)
	missing := atomic.LoadInt64(&sampleMissing)

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Alerts during baseline: %d\n", baselineAlerts)
	fmt.Printf("Alerts for %s: %d\n", burstMethod, alerts)
	fmt.Printf("Alerts missing sample: %d\n", missing)

	if baselineAlerts > 0 {
		fmt.Fprintln(os.Stderr, "FAIL: baseline traffic produced alerts")
		os.Exit(1)
	}
	if alerts == 0 {
		fmt.Fprintln(os.Stderr, "FAIL: burst produced no alerts")
		os.Exit(1)
	}
	if missing > 0 {
		fmt.Fprintln(os.Stderr, "FAIL: burst alerts arrived without a sample hash")
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

func writeLine(file *os.File, line callLine) error {
	payload, err := json.Marshal(line)
	if err != nil {
		return err
	}
	_, err = file.Write(append(payload, '\n'))
	return err
}
