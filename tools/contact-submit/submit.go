package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/metalstreets/contact-backend/pkg/submission"
)

func submitCmd(opts *rootOptions) *cobra.Command {
	var (
		formPath string
		contact  string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate a form file and deliver it to the intake endpoint",
		Long: `Validate a YAML form file and deliver it.

Delivery tries a direct POST first, then a fire-and-forget GET, and finally
opens your mail client with the submission filled in.

Examples:
  contact-submit submit --form jane.yaml
  contact-submit submit --form - --endpoint https://intake.example.com/ < jane.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := readFormFile(cmd.InOrStdin(), formPath)
			if err != nil {
				return err
			}

			log := opts.logger()
			defer log.Sync()

			p := submission.NewDefault(opts.endpoint, &http.Client{Timeout: timeout}, opts.opener,
				submission.WithLogger(log),
				submission.WithFeedback(terminalFeedback{out: cmd.OutOrStdout()}),
				submission.WithContactEmail(contact),
			)
			_, err = p.Submit(cmd.Context(), form)
			p.Wait()
			return err
		},
	}

	cmd.Flags().StringVarP(&formPath, "form", "f", "", "YAML form file, or - for stdin")
	cmd.Flags().StringVar(&contact, "contact", getEnv("CONTACT_EMAIL", submission.DefaultContactEmail), "address used by the mail-client fallback")
	cmd.Flags().DurationVar(&timeout, "timeout", submission.DefaultTimeout, "per-request timeout")
	return cmd
}
