package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.safehomi.dev/homeadmin/internal/config"
)

func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(
		newConfigShowCommand(opts),
		newConfigSetCommand(opts),
	)
	return cmd
}

func configPath(opts *Options) (string, error) {
	if strings.TrimSpace(opts.ConfigPath) != "" {
		return opts.ConfigPath, nil
	}
	return config.GetConfigPath()
}

func newConfigShowCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			sessionPath, err := config.GetSessionPath()
			if err != nil {
				return err
			}
			logPath, err := config.GetLogPath(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config_file:    %s\n", path)
			fmt.Fprintf(out, "session_file:   %s\n", sessionPath)
			fmt.Fprintf(out, "api_url:        %s\n", cfg.APIURL)
			fmt.Fprintf(out, "image_base_url: %s\n", cfg.ImageBase())
			fmt.Fprintf(out, "timeout:        %s\n", cfg.RequestTimeout())
			fmt.Fprintf(out, "notify_timeout: %s\n", cfg.NotifyDuration())
			fmt.Fprintf(out, "log_level:      %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "log_file:       %s\n", logPath)
			return nil
		},
	}
}

func newConfigSetCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (keys: " + strings.Join(config.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfigFrom(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			// Only the stored values are written; defaults stay implicit.
			if _, err := config.Resolve(cfg); err != nil {
				return err
			}
			if err := config.SaveConfigTo(path, cfg); err != nil {
				return err
			}
			if !opts.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			}
			return nil
		},
	}
}
