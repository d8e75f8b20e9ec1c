// Package main runs the vector benchmarks and writes results to JSON and
// Markdown. Run with: go run benchmarks/run_benchmarks.go
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

// Results holds all benchmark data for one run.
type Results struct {
	Timestamp   string                 `json:"timestamp"`
	Environment Environment            `json:"environment"`
	Groups      map[string][]Benchmark `json:"groups"`
}

// Environment describes the machine the benchmarks ran on.
type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

// Benchmark is one parsed `go test -bench` result line.
type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

// groups maps a report section to the -bench pattern that fills it.
var groups = []struct {
	name    string
	pattern string
}{
	{"mutation", "BenchmarkVectorPush|BenchmarkVectorRemove"},
	{"snapshot", "BenchmarkVectorSnapshot"},
	{"contention", "BenchmarkVectorReadHeavy|BenchmarkLockedSliceReadHeavy"},
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   COW VECTOR BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := Results{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Groups: make(map[string][]Benchmark),
	}

	for _, g := range groups {
		fmt.Printf("Running %s benchmarks...\n", g.name)
		results.Groups[g.name] = runBenchmarks(g.pattern)
	}

	if err := writeJSON(results, "benchmarks/results.json"); err != nil {
		fmt.Fprintln(os.Stderr, "write JSON:", err)
		os.Exit(1)
	}
	if err := writeMarkdown(results, "benchmarks/results.md"); err != nil {
		fmt.Fprintln(os.Stderr, "write Markdown:", err)
		os.Exit(1)
	}
	fmt.Println("\nResults written to benchmarks/results.{json,md}")
}

func runBenchmarks(pattern string) []Benchmark {
	cmd := exec.Command("go", "test", "-bench="+pattern, "-benchtime=2s", "-benchmem", "-run=^$", "./pkg/cow/...")
	output, _ := cmd.CombinedOutput()

	return parseBenchmarkOutput(string(output))
}

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark

	// Pattern: BenchmarkName-N    iterations    ns/op    [bytes/op    allocs/op]
	re := regexp.MustCompile(`(Benchmark[\w/]+)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op)?`)

	for _, match := range re.FindAllStringSubmatch(output, -1) {
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

	return benchmarks
}

func writeJSON(results Results, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeMarkdown(results Results, path string) error {
	var sb strings.Builder
	title := cases.Title(language.English)

	sb.WriteString("# COW Vector Benchmarks\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s  \n", results.Timestamp))
	sb.WriteString(fmt.Sprintf("Machine: %s/%s, %s (%d CPUs), %s\n\n",
		results.Environment.OS, results.Environment.Arch,
		results.Environment.CPU, results.Environment.NumCPU,
		results.Environment.GoVersion))

	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("## %s\n\n", title.String(g.name)))
		sb.WriteString("| Benchmark | ns/op | ops/sec | B/op | allocs/op |\n")
		sb.WriteString("|-----------|-------|---------|------|-----------|\n")
		for _, b := range results.Groups[g.name] {
			sb.WriteString(fmt.Sprintf("| %s | %.1f | %.0f | %d | %d |\n",
				b.Name, b.NsPerOp, b.OpsPerSec, b.BytesPerOp, b.AllocsPerOp))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func getCPUInfo() string {
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil {
			for _, line := range strings.Split(string(data), "\n") {
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
