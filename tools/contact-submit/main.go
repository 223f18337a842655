package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metalstreets/contact-backend/pkg/submission"
	"github.com/metalstreets/contact-backend/services/common/logger"
)

var Version = "dev"

const defaultEndpoint = "http://localhost:8093/"

type rootOptions struct {
	endpoint string
	verbose  bool
	opener   submission.Opener
}

// logger returns a development logger in verbose mode and a no-op one otherwise.
func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := logger.Initialize("development")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func main() {
	_ = godotenv.Load()

	root := newRootCmd(&rootOptions{opener: submission.SystemOpener{}})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "contact-submit",
		Short:         "Submit and administer Metal Streets Media contact forms",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.endpoint, "endpoint", "e", getEnv("CONTACT_ENDPOINT", defaultEndpoint), "intake endpoint URL")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every transport attempt")

	root.AddCommand(submitCmd(opts))
	root.AddCommand(pingCmd(opts))
	root.AddCommand(tokenCmd())
	root.AddCommand(exportCmd(opts))
	root.AddCommand(migrateCmd(opts))
	return root
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
