package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.safehomi.dev/homeadmin/internal/config"
	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/listdetail"
	"go.safehomi.dev/homeadmin/internal/logging"
	"go.safehomi.dev/homeadmin/internal/notify"
)

// runtime is everything a command needs to talk to the backend.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
	sessions *gateway.SessionStore
	client   *gateway.Client
}

func loadConfig(opts *Options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if strings.TrimSpace(opts.ConfigPath) != "" {
		cfg, err = config.LoadConfigFrom(opts.ConfigPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return config.Config{}, err
	}

	cfg, err = config.Resolve(cfg)
	if err != nil {
		return config.Config{}, err
	}
	// The flag beats both the file and the environment.
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newRuntime(opts *Options) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.OpenFile(logPath, level)
	if err != nil {
		return nil, err
	}

	sessionPath, err := config.GetSessionPath()
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	sessions := gateway.NewSessionStore(sessionPath, cfg.APIURL)

	client := gateway.NewClient(gateway.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout(),
		UserAgent: fmt.Sprintf("homeadmin/%s", Version),
		Tokens:    sessions,
	}, logger)

	logger.Debug("runtime ready", zap.String("api_url", cfg.APIURL), zap.String("log_file", logPath))

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		sessions: sessions,
		client:   client,
	}, nil
}

func (r *runtime) Close() {
	if r.closeLog != nil {
		_ = r.closeLog()
	}
}

// printer prints notifications to the command's output streams and logs
// them.
func (r *runtime) printer(cmd *cobra.Command, opts *Options) notify.Notifier {
	return notify.Logged(notify.NewWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Quiet), r.logger.Named("notify"))
}

func newController[S, D any](r *runtime, kind entity.Kind[S, D], notes notify.Notifier) *listdetail.Controller[S, D] {
	remote := gateway.NewResource[S, D](r.client, kind.Paths)
	return listdetail.New(kind.Resource, remote, notes, r.logger)
}
