package main

import (
	"flag"
	"log"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/interactive"
	"github.com/mbeutel/llamachat/jira"
	"github.com/mbeutel/llamachat/mcpserver"
	"github.com/mbeutel/llamachat/server"
	"github.com/mbeutel/llamachat/tools"
)

func main() {
	configPath := flag.String("config", "", "config file path (default ~/.config/llamachat/config.yaml)")
	flag.Parse()

	logger := log.Default()

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch {
	case cfg.MCP.Enable:
		err = runMCP(cfg, logger)
	case cfg.Server.Enable:
		err = server.New(cfg).Start()
	default:
		err = interactive.New(cfg).Start()
	}
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
}

func loadConfig(path string, logger *log.Logger) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cfg, created, err := config.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	if created {
		if p, perr := config.GetConfigPath(); perr == nil {
			logger.Printf("Created default config at %s", p)
		}
	}
	return cfg, nil
}

func runMCP(cfg *config.Config, logger *log.Logger) error {
	jiraClient := jira.New(cfg, logger)
	registry, err := tools.NewDefaultRegistry(cfg, jiraClient)
	if err != nil {
		return err
	}

	s := mcpserver.NewMCPServer(registry, logger)
	defer s.Close()
	return s.Serve()
}
