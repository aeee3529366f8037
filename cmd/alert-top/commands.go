package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nixlim/alert-top/internal/apiclient"
	"github.com/nixlim/alert-top/internal/storage"
)

// historyLimit is the number of locations --history prints.
const historyLimit = 20

// RunCheck queries the backend health endpoint and prints the report.
//
// Exit codes:
//   - 0: backend reports healthy
//   - 1: backend unreachable or unhealthy
func RunCheck(client *apiclient.Client, out io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Fprintf(out, "Backend: %s\n", client.BaseURL())

	h, err := client.Health(ctx)
	if err != nil && h.Status == "" {
		fmt.Fprintf(out, "Status:    unreachable (%v)\n", err)
		return 1
	}

	fmt.Fprintf(out, "Status:    %s\n", h.Status)
	if h.Database != "" {
		fmt.Fprintf(out, "Database:  %s\n", h.Database)
	}
	fmt.Fprintf(out, "Employees: %d\n", h.Employees)
	fmt.Fprintf(out, "Alerts:    %d\n", h.Alerts)
	if h.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", h.Error)
	}

	if err != nil || !h.Healthy() {
		return 1
	}
	return 0
}

// RunHistory prints the most recently viewed locations, newest first.
func RunHistory(h storage.History, out io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	visits, err := h.Recent(ctx, historyLimit)
	if err != nil {
		fmt.Fprintf(out, "Error reading history: %v\n", err)
		return 1
	}
	if len(visits) == 0 {
		fmt.Fprintln(out, "No views recorded yet.")
		return 0
	}

	for _, v := range visits {
		fmt.Fprintf(out, "%s  ?%s\n", v.VisitedAt.Local().Format("2006-01-02 15:04:05"), v.Location)
	}
	return 0
}
