package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/metalstreets/contact-backend/services/intake-service/repository"
)

const exportPath = "admin/submissions.csv"

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		token   string
		outPath string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every stored submission as CSV",
		Long: `Download every stored submission as CSV.

The bearer token comes from --token or ADMIN_TOKEN. Without either, a
short-lived token is minted from ADMIN_JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				t, err := adminToken("contact-submit", 5*time.Minute)
				if err != nil {
					return fmt.Errorf("no token: %w", err)
				}
				token = t
			}

			url := strings.TrimSuffix(opts.endpoint, "/") + "/" + exportPath
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := (&http.Client{Timeout: timeout}).Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("export failed (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			records, err := repository.ParseCSV(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("export returned malformed CSV: %w", err)
			}

			out := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				if err := os.WriteFile(outPath, body, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d submissions to %s\n", len(records), outPath)
				return nil
			}
			_, err = out.Write(body)
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", os.Getenv("ADMIN_TOKEN"), "admin bearer token")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, or - for stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}
