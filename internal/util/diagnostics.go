// Package util holds small runtime helpers shared by the CLI.
package util

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"
)

// LogDiagnostics logs a snapshot of process and memory statistics, used
// around a run when diagnostics are enabled.
func LogDiagnostics(startTime time.Time) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	log.Printf("===== DIAGNOSTIC REPORT =====")
	log.Printf("PID: %d", os.Getpid())
	log.Printf("Go version: %s", runtime.Version())
	log.Printf("Goroutines: %d", runtime.NumGoroutine())
	log.Printf("Runtime: %s", time.Since(startTime).Round(time.Second))
	log.Printf("Heap: %s in use / %s sys, %d GC cycles",
		formatBytes(m.HeapInuse), formatBytes(m.HeapSys), m.NumGC)
	log.Printf("=============================")
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
