// Command authctl exercises a cookie-session backend from the terminal.
// Each invocation is one execution context with its own cookie jar.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/authclient"
	"github.com/dmitrymomot/authclient/pkg/config"
	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type globalFlags struct {
	envFiles   []string
	configFile string
	baseURL    string
	cookie     string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "authctl",
		Short: "Talk to a Sanctum-style cookie-session backend",
		Long: `authctl runs the client side of a cookie-session backend with
double-submit CSRF protection: token bootstrap, login, current user, logout.

Configuration comes from AUTHCLIENT_* environment variables, .env files
(--env-file) or a YAML file (--config).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, ".env files to load")
	pf.StringVar(&flags.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&flags.baseURL, "base-url", "", "backend base URL (overrides configuration)")
	pf.StringVar(&flags.cookie, "cookie", "", "Cookie header to seed the jar with, e.g. copied from a browser")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		loginCmd(&flags),
		whoamiCmd(&flags),
		logoutCmd(&flags),
		csrfCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	if flags.baseURL != "" {
		os.Setenv("AUTHCLIENT_BASE_URL", flags.baseURL)
	}

	var (
		cfg config.Config
		err error
	)
	if flags.configFile != "" {
		cfg, err = config.LoadFile(flags.configFile)
	} else {
		cfg, err = config.Load(flags.envFiles...)
	}
	if err != nil {
		return config.Config{}, err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	return cfg, cfg.Validate()
}

// newClient builds the single execution context of this process.
func newClient(flags *globalFlags) (*authclient.Client, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithOutput(os.Stderr),
		logger.WithAttr(slog.String("app", "authctl")),
	)

	c, err := authclient.New(cfg, transport.Browser(), nil, authclient.WithLogger(log))
	if err != nil {
		return nil, err
	}

	if flags.cookie != "" {
		cookies, err := http.ParseCookie(flags.cookie)
		if err != nil {
			return nil, fmt.Errorf("parse --cookie: %w", err)
		}
		c.Transport.Jar().SetCookies(c.Transport.BaseURL(), cookies)
	}
	return c, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("authctl %s (%s)\n", version, commit)
		},
	}
}
