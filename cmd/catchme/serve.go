package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/verte-zerg/catchme/internal/config"
	"github.com/verte-zerg/catchme/internal/game"
	"github.com/verte-zerg/catchme/internal/store"
	"github.com/verte-zerg/catchme/internal/tui"
)

const (
	defaultServeHost = "::"
	defaultServePort = 2222

	sshProfilePrefix = "ssh:"
	guestUser        = "guest"
	maxUserLen       = 32
	shutdownTimeout  = 5 * time.Second
)

type serveConfig struct {
	host     string
	port     int
	hostKey  string
	duration int
}

func (c *serveConfig) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if strings.TrimSpace(c.hostKey) == "" {
		return errors.New("--host-key must not be empty")
	}
	if !game.ValidDuration(c.duration) {
		return fmt.Errorf("--duration: %w", game.ErrInvalidDuration)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}
	v := viper.New()
	v.SetEnvPrefix("CATCHME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the game over SSH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyStringConfig(cmd, "host", &cfg.host, fileCfg.Serve.Host)
			applyIntConfig(cmd, "port", &cfg.port, fileCfg.Serve.Port)
			applyStringConfig(cmd, "host-key", &cfg.hostKey, fileCfg.Serve.HostKey)
			applyIntConfig(cmd, "duration", &cfg.duration, fileCfg.Game.Duration)
			if err := cfg.validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&cfg.host, "host", defaultServeHost, "address to listen on (env: CATCHME_HOST)")
	fs.IntVarP(&cfg.port, "port", "p", defaultServePort, "port to listen on (env: CATCHME_PORT)")
	fs.StringVar(&cfg.hostKey, "host-key", config.DefaultHostKeyPath(), "path to the SSH host key, created if missing (env: CATCHME_HOST_KEY)")
	fs.IntVar(&cfg.duration, "duration", game.DefaultDuration, "initial round length for new sessions (env: CATCHME_DURATION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "catchme",
	})

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.hostKey), 0o700); err != nil {
		return fmt.Errorf("failed to create host key directory: %w", err)
	}

	h := &sessionHandler{store: st, logger: logger, duration: cfg.duration}
	addr := net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.hostKey),
		wish.WithMiddleware(
			bm.Middleware(h.teaHandler),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	logger.Info("starting SSH server", "addr", addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// sessionHandler builds one game per SSH session. Sessions of the same user
// share a profile; the last write wins.
type sessionHandler struct {
	store    *store.Store
	logger   *log.Logger
	duration int
}

func (h *sessionHandler) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	profile := sessionProfile(sess.User())
	kv := h.store.KV(profile)
	sched := tui.NewScheduler()
	ctrl := game.New(kv, sched, game.Options{
		Persist:  true,
		Duration: h.duration,
		Profile:  profile,
		Journal:  kv,
		Logger:   h.logger.With("profile", profile),
	})
	h.logger.Info("new session", "profile", profile, "remote", sess.RemoteAddr().String())
	m := tui.NewModel(ctrl, sched, bm.MakeRenderer(sess))
	return m, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// sessionProfile maps an SSH user name onto a record profile.
func sessionProfile(user string) string {
	user = strings.ToLower(strings.TrimSpace(user))
	var b strings.Builder
	for _, r := range user {
		if b.Len() >= maxUserLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = guestUser
	}
	return sshProfilePrefix + name
}
