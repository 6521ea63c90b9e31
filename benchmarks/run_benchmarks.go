// Package main runs the performance benchmarks and writes the results to
// JSON and Markdown. Run with: go run benchmarks/run_benchmarks.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BenchmarkResults holds all benchmark data.
type BenchmarkResults struct {
	Timestamp   string                 `json:"timestamp"`
	Environment Environment            `json:"environment"`
	Categories  map[string][]Benchmark `json:"categories"`
	Summary     Summary                `json:"summary"`
}

type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

type Summary struct {
	HTTP    HTTPSummary    `json:"http"`
	Storage StorageSummary `json:"storage"`
	Startup StartupSummary `json:"startup"`
}

type HTTPSummary struct {
	ThroughputOpsPerSec float64 `json:"throughput_ops_per_sec"`
	LatencyNs           float64 `json:"latency_ns"`
	Claim               string  `json:"claim"`
}

type StorageSummary struct {
	CreateNsPerOp float64 `json:"create_ns_per_op"`
	GetNsPerOp    float64 `json:"get_ns_per_op"`
	Claim         string  `json:"claim"`
}

type StartupSummary struct {
	ServerNs float64 `json:"server_ns"`
	Claim    string  `json:"claim"`
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   TESTAPP BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := BenchmarkResults{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Categories: make(map[string][]Benchmark),
	}

	fmt.Println("Running storage benchmarks...")
	results.Categories["storage"] = runBenchmarks("BenchmarkStore")

	fmt.Println("Running HTTP benchmarks...")
	results.Categories["http"] = runBenchmarks("BenchmarkHTTP")

	fmt.Println("Running startup benchmarks...")
	results.Categories["startup"] = runBenchmarks("BenchmarkServerStartup")

	results.Summary = calculateSummary(results.Categories)

	if err := os.MkdirAll("benchmarks/results", 0o755); err != nil {
		fmt.Printf("Error creating results directory: %v\n", err)
		return
	}

	jsonPath := "benchmarks/results/latest.json"
	writeJSON(results, jsonPath)
	fmt.Printf("\nJSON results: %s\n", jsonPath)

	mdPath := "benchmarks/results/LATEST.md"
	writeMarkdown(results, mdPath)
	fmt.Printf("Markdown results: %s\n", mdPath)

	printSummary(results)
}

func getCPUInfo() string {
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil {
			lines := strings.Split(string(data), "\n")
			for _, line := range lines {
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return "unknown"
}

func runBenchmarks(pattern string) []Benchmark {
	cmd := exec.Command("go", "test", "-bench="+pattern, "-benchtime=2s", "-benchmem", "./tests/performance/...")
	output, _ := cmd.CombinedOutput()

	return parseBenchmarkOutput(string(output))
}

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark

	// Pattern: BenchmarkName-N    iterations    ns/op    bytes/op    allocs/op
	// Sub-benchmarks add path segments like BenchmarkStore_Search/1000.
	re := regexp.MustCompile(`(Benchmark[\w/]+)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op`)

	matches := re.FindAllStringSubmatch(output, -1)
	for _, match := range matches {
		if len(match) >= 6 {
			nsPerOp, _ := strconv.ParseFloat(match[3], 64)
			bytesPerOp, _ := strconv.ParseInt(match[4], 10, 64)
			allocsPerOp, _ := strconv.ParseInt(match[5], 10, 64)

			opsPerSec := 0.0
			if nsPerOp > 0 {
				opsPerSec = 1e9 / nsPerOp
			}

			benchmarks = append(benchmarks, Benchmark{
				Name:        match[1],
				NsPerOp:     nsPerOp,
				OpsPerSec:   opsPerSec,
				BytesPerOp:  bytesPerOp,
				AllocsPerOp: allocsPerOp,
			})
		}
	}

	return benchmarks
}

func calculateSummary(categories map[string][]Benchmark) Summary {
	summary := Summary{}

	for _, b := range categories["http"] {
		if strings.Contains(b.Name, "ParallelHealth") {
			summary.HTTP.ThroughputOpsPerSec = b.OpsPerSec
		}
		if strings.HasSuffix(b.Name, "HTTP_Health") {
			summary.HTTP.LatencyNs = b.NsPerOp
		}
	}
	if summary.HTTP.ThroughputOpsPerSec > 0 {
		summary.HTTP.Claim = fmt.Sprintf("%.0fK+ req/s", summary.HTTP.ThroughputOpsPerSec/1000*0.8)
	}

	for _, b := range categories["storage"] {
		if strings.HasSuffix(b.Name, "Store_Create") {
			summary.Storage.CreateNsPerOp = b.NsPerOp
		}
		if strings.HasSuffix(b.Name, "Store_Get") {
			summary.Storage.GetNsPerOp = b.NsPerOp
		}
	}
	if summary.Storage.CreateNsPerOp > 0 {
		summary.Storage.Claim = fmt.Sprintf("%.0fK+ writes/s", 1e9/summary.Storage.CreateNsPerOp/1000*0.8)
	}

	for _, b := range categories["startup"] {
		if strings.Contains(b.Name, "ServerStartup") {
			summary.Startup.ServerNs = b.NsPerOp
		}
	}
	summary.Startup.Claim = fmt.Sprintf("<%.0fms", summary.Startup.ServerNs/1e6+1)

	return summary
}

func writeJSON(results BenchmarkResults, path string) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", path, err)
	}
}

func writeMarkdown(results BenchmarkResults, path string) {
	var sb strings.Builder

	sb.WriteString("# Testapp Benchmark Results\n\n")
	sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", results.Timestamp))
	sb.WriteString("## Environment\n\n")
	sb.WriteString(fmt.Sprintf("- **OS**: %s/%s\n", results.Environment.OS, results.Environment.Arch))
	sb.WriteString(fmt.Sprintf("- **CPU**: %s (%d cores)\n", results.Environment.CPU, results.Environment.NumCPU))
	sb.WriteString(fmt.Sprintf("- **Go**: %s\n\n", results.Environment.GoVersion))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Category | Throughput | Latency | Claim |\n")
	sb.WriteString("|----------|------------|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| HTTP | %.0f req/s | %.2fμs | %s |\n",
		results.Summary.HTTP.ThroughputOpsPerSec,
		results.Summary.HTTP.LatencyNs/1000,
		results.Summary.HTTP.Claim))
	sb.WriteString(fmt.Sprintf("| Storage | - | %.2fμs (create) | %s |\n",
		results.Summary.Storage.CreateNsPerOp/1000,
		results.Summary.Storage.Claim))
	sb.WriteString(fmt.Sprintf("| Startup | - | %.2fms | %s |\n",
		results.Summary.Startup.ServerNs/1e6,
		results.Summary.Startup.Claim))
	sb.WriteString("\n")

	for name, benches := range results.Categories {
		sb.WriteString(fmt.Sprintf("## %s\n\n", cases.Title(language.English).String(name)))
		sb.WriteString("| Benchmark | ops/sec | ns/op | B/op | allocs/op |\n")
		sb.WriteString("|-----------|---------|-------|------|----------|\n")
		for _, b := range benches {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %d | %d |\n",
				b.Name, b.OpsPerSec, b.NsPerOp, b.BytesPerOp, b.AllocsPerOp))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Reproducing\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("go run benchmarks/run_benchmarks.go\n")
	sb.WriteString("# Or individual categories:\n")
	sb.WriteString("go test -bench=BenchmarkStore -benchtime=2s -benchmem ./tests/performance/...\n")
	sb.WriteString("go test -bench=BenchmarkHTTP -benchtime=2s -benchmem ./tests/performance/...\n")
	sb.WriteString("```\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", path, err)
	}
}

func printSummary(results BenchmarkResults) {
	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("              SUMMARY")
	fmt.Println("==========================================")
	fmt.Printf("HTTP:    %.0f req/s (%.2fμs latency)\n",
		results.Summary.HTTP.ThroughputOpsPerSec,
		results.Summary.HTTP.LatencyNs/1000)
	fmt.Printf("Storage: %.2fμs create, %.2fμs get\n",
		results.Summary.Storage.CreateNsPerOp/1000,
		results.Summary.Storage.GetNsPerOp/1000)
	fmt.Printf("Startup: %.2fms\n",
		results.Summary.Startup.ServerNs/1e6)
	fmt.Println("==========================================")
}
