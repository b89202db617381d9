package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

type Options struct {
	ConfigPath string
	APIURL     string
	Verbose    bool
	Quiet      bool
}

var Version = "dev"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &Options{}
	root := NewRootCommand(opts)
	return root.ExecuteContext(ctx)
}

func NewRootCommand(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "homeadmin",
		Short:         "Admin console for SafeHomi property listings and contact inquiries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file path")
	root.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "Backend base URL (overrides config)")
	root.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.Quiet, "quiet", false, "Suppress non-error output")

	root.AddCommand(
		newUICommand(opts),
		newResourceCommand(opts, entity.Listings(), "listings", "Manage property listings"),
		newResourceCommand(opts, entity.Inquiries(), "inquiries", "Manage contact inquiries"),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newConfigCommand(opts),
		newMockServerCommand(opts),
	)

	root.Version = Version
	root.SetVersionTemplate(fmt.Sprintf("homeadmin %s\n", Version))

	return root
}

// ExitWithError prints err and exits with status 1. Backend failures were
// already printed by the notifier when they happened and are not repeated.
func ExitWithError(err error) {
	if err == nil {
		return
	}
	if !listdetail.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	}
	os.Exit(1)
}
