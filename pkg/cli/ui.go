package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/notify"
	"go.safehomi.dev/homeadmin/internal/tui"
)

func newUICommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "ui",
		Aliases: []string{"console"},
		Short:   "Open the interactive admin console",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if _, err := rt.sessions.Token(); err != nil {
				return fmt.Errorf("%w. Run: homeadmin login", err)
			}

			toasts := notify.NewQueue(rt.cfg.NotifyDuration())
			notes := notify.Logged(toasts, rt.logger.Named("notify"))

			return tui.Run(cmd.Context(), tui.Options{
				Listings:  newController(rt, entity.Listings(), notes),
				Inquiries: newController(rt, entity.Inquiries(), notes),
				Toasts:    toasts,
				ImageBase: rt.cfg.ImageBase(),
				Logger:    rt.logger,
			})
		},
	}
}
