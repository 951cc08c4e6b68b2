package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/config"
	"github.com/Yuralo/Attention-Lens/internal/logging"
	"github.com/Yuralo/Attention-Lens/views/dashboard"
)

const Version = "0.1.0"

// model adapts the dashboard to tea.Model.
type model struct {
	dashboard dashboard.Model
}

func (m model) Init() tea.Cmd {
	return m.dashboard.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

func (m model) View() string {
	return m.dashboard.View()
}

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default: attention-lens.yaml or ~/.attention-lens/config.yaml)")
		initConfig  = flag.Bool("init", false, "write a default config file and exit")
		url         = flag.String("url", "", "analysis service base URL")
		text        = flag.String("text", "", "initial input text")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Attention Lens v%s\n", Version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if *initConfig {
		if err := config.InitConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		os.Exit(0)
	}

	if err := run(path, *url, *text); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, url, text string) error {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if url != "" {
		cfg.Service.URL = url
	}
	if text != "" {
		cfg.Views.InitialText = text
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	client := analysis.NewHTTPClient(cfg.Service.URL)
	logger.Info("starting", "version", Version, "service", client.BaseURL(), "config", path)

	d := dashboard.New(dashboard.Options{
		Client:      client,
		Health:      client.Health,
		Logger:      logger,
		InitialText: cfg.Views.InitialText,
		TopK:        cfg.Views.TopK,
		AnalogyTopK: cfg.Views.AnalogyTopK,
		Positive:    cfg.Views.AnalogyPositive,
		Negative:    cfg.Views.AnalogyNegative,
		ExportDir:   cfg.Export.Dir,
	})
	defer d.Orchestrator().Close()

	p := tea.NewProgram(model{dashboard: d}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	logger.Info("exiting")
	return nil
}
