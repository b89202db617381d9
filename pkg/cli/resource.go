package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/listdetail"
	"go.safehomi.dev/homeadmin/internal/tui"
)

// ErrCancelled is returned by confirm when the operator declines.
var ErrCancelled = errors.New("cancelled")

// newResourceCommand builds the list/show/toggle/delete/search group for one
// record kind.
func newResourceCommand[S, D any](opts *Options, kind entity.Kind[S, D], use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(
		newResourceListCommand(opts, kind),
		newResourceShowCommand(opts, kind),
		newResourceToggleCommand(opts, kind),
		newResourceDeleteCommand(opts, kind),
		newResourceSearchCommand(opts, kind),
	)
	return cmd
}

// withController runs fn against a controller wired to the configured
// backend. Notifications print to the command's streams.
func withController[S, D any](cmd *cobra.Command, opts *Options, kind entity.Kind[S, D], fn func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctrl := newController(rt, kind, rt.printer(cmd, opts))
	return fn(cmd.Context(), ctrl, rt)
}

func newResourceListCommand[S, D any](opts *Options, kind entity.Kind[S, D]) *cobra.Command {
	var output string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", kind.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output)
			if err != nil {
				return err
			}
			var (
				filter bool
				active bool
			)
			if strings.TrimSpace(status) != "" {
				var ok bool
				active, ok = entity.ParseStatus(status)
				if !ok {
					return fmt.Errorf("invalid status %q (use active or inactive)", status)
				}
				filter = true
			}

			return withController(cmd, opts, kind, func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error {
				items, err := ctrl.Load(ctx)
				if err != nil {
					return err
				}
				if filter {
					items = kind.Filter(items, active)
				}
				return writeItems(cmd.OutOrStdout(), format, kind, items)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(outputTable), "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, inactive)")
	return cmd
}

func newResourceShowCommand[S, D any](opts *Options, kind entity.Kind[S, D]) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one of the %s with its images", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output)
			if err != nil {
				return err
			}

			return withController(cmd, opts, kind, func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error {
				record, err := ctrl.Open(ctx, args[0])
				if err != nil {
					return err
				}
				defer ctrl.CloseDetail()
				return writeDetail(cmd.OutOrStdout(), format, kind, record, rt.cfg.ImageBase())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(outputTable), "Output format (table, json, yaml)")
	return cmd
}

func newResourceToggleCommand[S, D any](opts *Options, kind entity.Kind[S, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the active status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, kind, func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error {
				// Toggle works on the listed copy, so the list comes first.
				if _, err := ctrl.Load(ctx); err != nil {
					return err
				}
				return ctrl.Toggle(ctx, args[0])
			})
		},
	}
}

func newResourceDeleteCommand[S, D any](opts *Options, kind entity.Kind[S, D]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, kind, func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error {
				if _, err := ctrl.Load(ctx); err != nil {
					return err
				}
				id := args[0]
				if err := ctrl.RequestDeleteID(id); err != nil {
					return err
				}

				if !yes {
					item, _ := ctrl.Find(id)
					if err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), kind.DeleteTitle, kind.DeletePrompt(item)); err != nil {
						ctrl.CancelDelete()
						if errors.Is(err, ErrCancelled) {
							if !opts.Quiet {
								fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
							}
							return nil
						}
						return err
					}
				}
				return ctrl.ConfirmDelete(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newResourceSearchCommand[S, D any](opts *Options, kind entity.Kind[S, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "search <pattern>",
		Short: fmt.Sprintf("Fuzzy-search %s", kind.Name),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := strings.Join(args, " ")
			return withController(cmd, opts, kind, func(ctx context.Context, ctrl *listdetail.Controller[S, D], rt *runtime) error {
				items, err := ctrl.Load(ctx)
				if err != nil {
					return err
				}
				matches := tui.FilterItems(pattern, items, kind.SearchText)
				if len(matches) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s match %q\n", kind.Name, pattern)
					return nil
				}
				return writeItems(cmd.OutOrStdout(), outputTable, kind, matches)
			})
		},
	}
}

// confirm asks a yes/no question on in. Anything but y or yes returns
// ErrCancelled.
func confirm(in io.Reader, out io.Writer, title, prompt string) error {
	fmt.Fprintf(out, "%s\n%s [y/N]: ", title, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return ErrCancelled
}
