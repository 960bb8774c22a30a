// Package security provides optional ClamAV scanning of source files before
// conversion.
package security

import (
	"fmt"
	"io"
	"os"

	clamd "github.com/dutchcoders/go-clamd"
)

const defaultClamdAddress = "localhost:3310"

// Scanner streams files to a clamd daemon. A Scanner with no reachable
// daemon is permanently disabled and reports every file as unscanned.
type Scanner struct {
	enabled bool
	client  *clamd.Clamd
}

// ScanResult is the outcome of scanning one file.
type ScanResult struct {
	Scanned  bool
	Infected bool
	Threats  []string
}

// NewScanner connects to the clamd daemon at the given address. When the
// daemon is unreachable the scanner comes back disabled rather than failing;
// scanning is an optional safeguard, never a reason to block a run.
func NewScanner(address string) *Scanner {
	if address == "" {
		address = defaultClamdAddress
	}

	client := clamd.NewClamd(address)
	if err := client.Ping(); err != nil {
		return &Scanner{enabled: false}
	}

	return &Scanner{enabled: true, client: client}
}

// IsEnabled reports whether a daemon connection was established.
func (s *Scanner) IsEnabled() bool { return s.enabled }

// ScanFile streams the file at path to the daemon.
func (s *Scanner) ScanFile(path string) (*ScanResult, error) {
	if !s.enabled {
		return &ScanResult{Scanned: false}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for scanning: %w", err)
	}
	defer f.Close()

	return s.scanReader(f)
}

func (s *Scanner) scanReader(r io.Reader) (*ScanResult, error) {
	result := &ScanResult{Scanned: true}

	responses, err := s.client.ScanStream(r, make(chan bool))
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	for resp := range responses {
		if resp.Status == "FOUND" {
			result.Infected = true
			result.Threats = append(result.Threats, resp.Description)
		}
	}

	return result, nil
}
