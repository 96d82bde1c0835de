package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Summarizes a day's payment logs: confirmations, duplicates, rejected
// signatures, ignored statuses, and swallowed quote-link failures.

type LogStats struct {
	OrdersCreated      int
	Duplicates         int
	BadSignatures      int
	IgnoredStatuses    int
	QuoteLinkFailures  int
	VerifyFailures     int
	TotalErrors        int
	ErrorPatterns      map[string]int
	RateLimitedClients map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		ErrorPatterns:      make(map[string]int),
		RateLimitedClients: make(map[string]int),
	}

	scanFile(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)
	scanFile(filepath.Join(logDir, fmt.Sprintf("warn-%s.log", today)), stats)
	scanFile(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)

	printReport(stats)
}

func scanFile(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Skipping log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "created for transaction"):
			stats.OrdersCreated++
		case strings.Contains(line, "already processed"),
			strings.Contains(line, "caught by unique index"):
			stats.Duplicates++
		case strings.Contains(line, "Invalid webhook signature"):
			stats.BadSignatures++
		case strings.Contains(line, "Ignoring transaction"):
			stats.IgnoredStatuses++
		case strings.Contains(line, "Quote update failed"),
			strings.Contains(line, "Quote lookup failed"):
			stats.QuoteLinkFailures++
		case strings.Contains(line, "verify failed"), strings.Contains(line, "verify call failed"):
			stats.VerifyFailures++
		case strings.Contains(line, "Rate limit exceeded for"):
			parts := strings.SplitN(line, "Rate limit exceeded for ", 2)
			if len(parts) == 2 {
				client := strings.Fields(parts[1])[0]
				stats.RateLimitedClients[client]++
			}
		case strings.HasPrefix(line, "ERROR:"):
			stats.TotalErrors++
			if idx := strings.Index(line, ".go:"); idx > 0 {
				fields := strings.Fields(line[idx:])
				if len(fields) > 1 {
					stats.ErrorPatterns[fields[1]]++
				}
			}
		}
	}
}

func printReport(stats *LogStats) {
	fmt.Println("=== Payment Log Report ===")
	fmt.Printf("Orders created:       %d\n", stats.OrdersCreated)
	fmt.Printf("Duplicate deliveries: %d\n", stats.Duplicates)
	fmt.Printf("Bad signatures:       %d\n", stats.BadSignatures)
	fmt.Printf("Ignored statuses:     %d\n", stats.IgnoredStatuses)
	fmt.Printf("Quote link failures:  %d\n", stats.QuoteLinkFailures)
	fmt.Printf("Verify failures:      %d\n", stats.VerifyFailures)
	fmt.Printf("Other errors:         %d\n", stats.TotalErrors)

	if len(stats.RateLimitedClients) > 0 {
		fmt.Println("\nRate-limited clients:")
		clients := make([]string, 0, len(stats.RateLimitedClients))
		for client := range stats.RateLimitedClients {
			clients = append(clients, client)
		}
		sort.Strings(clients)
		for _, client := range clients {
			fmt.Printf("  %s: %d\n", client, stats.RateLimitedClients[client])
		}
	}

	if len(stats.ErrorPatterns) > 0 {
		fmt.Println("\nError sources:")
		for pattern, count := range stats.ErrorPatterns {
			fmt.Printf("  %s: %d\n", pattern, count)
		}
	}
}
