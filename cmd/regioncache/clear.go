package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var (
		server  string
		region  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear one region, or every region, on a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := clearRemote(ctx, http.DefaultClient, server, region, cmd.Flags().Changed("region"))
			if err != nil {
				return err
			}

			if resp.Region != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "cleared region %q in %d storages\n", resp.Region, resp.Storages)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "cleared all regions in %d storages\n", resp.Storages)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of the regioncache server")
	cmd.Flags().StringVarP(&region, "region", "r", "", "region to clear (default: all regions)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}

// clearRemote asks the server at base to clear region, or everything when
// scoped is false.
func clearRemote(ctx context.Context, client *http.Client, base, region string, scoped bool) (clearResponse, error) {
	u, err := url.Parse(base)
	if err != nil {
		return clearResponse{}, fmt.Errorf("parse server url: %w", err)
	}
	u = u.JoinPath("cache", "clear")
	if scoped {
		u.RawQuery = url.Values{"region": []string{region}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return clearResponse{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return clearResponse{}, fmt.Errorf("clear request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return clearResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return clearResponse{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return clearResponse{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out clearResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return clearResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
