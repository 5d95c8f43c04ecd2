package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"resty.dev/v3"
)

var (
	pingURL     string
	pingTimeout time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the health endpoint of a running server",
	Long: `Calls GET <url>/api/health and exits non-zero unless the server answers
with status OK and a reachable store.

Examples:
  sales-management ping
  sales-management ping --url http://api.internal:3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()
		return runPing(ctx, pingURL, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().StringVar(&pingURL, "url", "http://localhost:3000", "Base URL of the server")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "Request timeout")
}

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Store    string `json:"store"`
}

func runPing(ctx context.Context, baseURL string, out io.Writer) error {
	client := resty.New()
	defer client.Close()

	res, err := client.R().SetContext(ctx).Get(strings.TrimRight(baseURL, "/") + "/api/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("health endpoint returned %d: %s", res.StatusCode(), res.String())
	}

	var report healthReport
	if err := json.Unmarshal([]byte(res.String()), &report); err != nil {
		return fmt.Errorf("decode health report: %w", err)
	}
	fmt.Fprintf(out, "status=%s database=%s store=%s\n", report.Status, report.Database, report.Store)
	if report.Status != "OK" || report.Store != "up" {
		return fmt.Errorf("server unhealthy: status=%s store=%s", report.Status, report.Store)
	}
	return nil
}
