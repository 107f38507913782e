// Command sdn-tui is an interactive terminal dashboard and console for an
// in-process SDN controller.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/events"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	scenarioPath := flag.String("scenario", "", "Scenario file applied before the UI starts")
	logPath := flag.String("log", "", "Write controller logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}

	// The alternate screen owns stdout, so logs go to a file or nowhere
	var logger logging.Logger = logging.NewNopLogger()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		logger = logging.NewJSONLogger(f, cfg.LogLevel())
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Shutdown()

	c := controller.New(
		controller.WithLogger(logger),
		controller.WithEvents(bus),
		controller.WithAudit(audit.NewLogger(cfg.Audit.BufferSize)),
		controller.WithLimits(cfg.Routing.Limits()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := bus.Subscribe(ctx)
	if err != nil {
		log.Fatalf("subscribe to events: %v", err)
	}
	defer sub.Unsubscribe()

	if cfg.Scenario.Path != "" {
		scenario, err := config.LoadScenario(cfg.Scenario.Path)
		if err != nil {
			log.Fatalf("load scenario: %v", err)
		}
		if _, err := c.As("scenario").Apply(scenario); err != nil {
			log.Fatalf("apply scenario %s: %v", cfg.Scenario.Path, err)
		}
	}

	p := tea.NewProgram(initialModel(c.As("console"), sub.Channel()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
