package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

type statusPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func pingCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the intake endpoint is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: timeout}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, opts.endpoint, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("intake endpoint unreachable: %w", err)
			}
			defer resp.Body.Close()

			var payload statusPayload
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("unexpected response (HTTP %d): %w", resp.StatusCode, err)
			}
			if payload.Status != "success" {
				return fmt.Errorf("intake endpoint reported %s: %s", payload.Status, payload.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload.Message)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}
