// interactive/interactive.go
package interactive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mbeutel/llamachat/agent"
	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/conversation"
	"github.com/mbeutel/llamachat/jira"
	"github.com/mbeutel/llamachat/tools"
)

type Interactive struct {
	logger  *log.Logger
	scanner *bufio.Reader
	cfg     *config.Config
	agent   *agent.Agent
	debug   bool
}

func New(cfg *config.Config) *Interactive {
	return &Interactive{
		scanner: bufio.NewReader(os.Stdin),
		logger:  log.Default(),
		cfg:     cfg,
		debug:   cfg.Debug(),
	}
}

func (i *Interactive) Start() error {
	jiraClient := jira.New(i.cfg, i.logger)

	registry, err := tools.NewDefaultRegistry(i.cfg, jiraClient)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	store, err := i.loadStore()
	if err != nil {
		registry.Close()
		return err
	}

	i.agent = agent.New(i.cfg, registry, store, i.logger)
	defer i.agent.Close()

	if i.debug {
		if err := i.agent.TestConnection(context.Background()); err != nil {
			i.logger.Printf("LLM connection test failed: %v", err)
		} else {
			i.logger.Println("LLM connection test succeeded")
		}
	}

	jiraMode := "sample data mode"
	if jiraClient.IsConnected() {
		jiraMode = "connected to " + i.cfg.Jira.ServerURL
	}

	fmt.Println("\n=== LlamaChat Interface Ready ===")
	fmt.Println("Type 'quit' or press Ctrl+C to exit, 'clear' to reset the conversation")
	fmt.Println("Connected to model:", i.cfg.LLM.Model)
	fmt.Printf("Using endpoint: %s\n", i.cfg.LLM.Endpoint)
	fmt.Println("Database:", i.cfg.Database.Path)
	fmt.Println("Jira:", jiraMode)
	fmt.Println("================================")

	for {
		fmt.Print("\nEnter your message: ")
		input, err := i.scanner.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return i.saveStore(store)
			}
			if i.debug {
				i.logger.Printf("Error reading input: %v", err)
			}
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "quit" || input == "exit" {
			fmt.Println("Goodbye!")
			return i.saveStore(store)
		}

		if input == "clear" {
			store.Clear()
			fmt.Println("Conversation cleared.")
			continue
		}

		if i.debug {
			i.logger.Printf("Sending message to agent: %s", input)
		}
		response, err := i.agent.ProcessMessage(context.Background(), input)
		if err != nil {
			if i.debug {
				i.logger.Printf("Error from agent: %v", err)
			}
			fmt.Printf("\nError: %v\n", err)
			continue
		}

		if response == "" {
			if i.debug {
				i.logger.Println("Warning: Empty response received from agent")
			}
			fmt.Println("\nNo response received.")
			continue
		}

		fmt.Printf("\n%s\n", response)
	}
}

// loadStore restores the configured transcript, or starts fresh.
func (i *Interactive) loadStore() (*conversation.Store, error) {
	path := i.cfg.Conversation.TranscriptPath
	if path == "" {
		return conversation.NewStore(), nil
	}
	store, err := conversation.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	if store.Len() > 0 {
		i.logger.Printf("Restored %d messages from %s", store.Len(), path)
	}
	return store, nil
}

func (i *Interactive) saveStore(store *conversation.Store) error {
	path := i.cfg.Conversation.TranscriptPath
	if path == "" {
		return nil
	}
	if err := store.Save(path); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	i.logger.Printf("Transcript saved to %s", path)
	return nil
}

func (i *Interactive) Shutdown() error {
	if i.agent != nil {
		return i.agent.Close()
	}
	return nil
}
