package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"MacroPrelude/internal/annotate"
	"MacroPrelude/internal/collector"
	"MacroPrelude/internal/config"
	"MacroPrelude/internal/httpcache"
	"MacroPrelude/internal/render"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "prelude",
	Short: "Fetch economic and market series and render annotated charts",
	Long: `Prelude fetches time series from FRED and Yahoo Finance through a local
HTTP cache and renders charts shaded with US recessions and Fed QE programs.

Examples:
  prelude fetch UNRATE --start 2000-01-01
  prelude fetch ^GSPC --market --column Close
  prelude render unemployment
  prelude watch
  prelude cache stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(logLevel)
		return nil
	},
}

func init() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	defaultLevel := os.Getenv("PRELUDE_LOG")
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "path to YAML config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel, "debug, info, warn or error")
}

func initLogger(level string) {
	log.SetHandler(cli.New(os.Stderr))
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("unknown log level, using info")
		return
	}
	log.SetLevel(lvl)
}

// app is everything a command needs, built from the config.
type app struct {
	cfg       *config.Config
	store     httpcache.Store
	transport *httpcache.Transport
	session   *collector.Session
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (httpcache.Store, error) {
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return httpcache.NewMemoryStore(), nil
	default:
		return httpcache.NewSQLiteStore(cfg.Cache.Path)
	}
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		log.WithError(err).Warn("open cache failed, using memory")
		store = httpcache.NewMemoryStore()
	}

	client := httpcache.NewClient(store, cfg.Cache.ExpireAfter, cfg.Proxy)
	start, _ := config.ParseDate(cfg.History.Start)
	session := collector.NewSession(
		collector.NewFREDSource(client, cfg.FRED.APIKey),
		collector.NewYahooSource(client),
		start,
	)
	log.WithFields(log.Fields{
		"cache":  cfg.Cache.Backend,
		"expiry": cfg.Cache.ExpireAfter,
	}).Debug("session ready")

	return &app{
		cfg:       cfg,
		store:     store,
		transport: client.Transport.(*httpcache.Transport),
		session:   session,
	}, nil
}

func (a *app) renderer() *render.Renderer {
	return render.NewRenderer(a.session,
		annotate.Attribution{Entity: a.cfg.Annotation.Entity, Since: a.cfg.Annotation.CopyrightSince},
		annotate.QEOptions{IncludeTwistAndTaper: a.cfg.Annotation.IncludeTwistTaper},
	)
}

func (a *app) Close() error {
	return a.store.Close()
}
