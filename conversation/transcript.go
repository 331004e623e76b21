// conversation/transcript.go
package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mbeutel/llamachat/types"
)

// Transcript is the on-disk YAML shape of a conversation.
type Transcript struct {
	SessionID string          `yaml:"session_id"`
	SavedAt   time.Time       `yaml:"saved_at"`
	Messages  []types.Message `yaml:"messages"`
}

// Save writes the history to path as YAML, creating parent directories
// as needed.
func (s *Store) Save(path string) error {
	transcript := Transcript{
		SessionID: s.ID(),
		SavedAt:   time.Now(),
		Messages:  s.Messages(),
	}

	data, err := yaml.Marshal(&transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// Load restores a store from a transcript file. A missing file is not an
// error; it yields a fresh store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var transcript Transcript
	if err := yaml.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	store := NewStore()
	if transcript.SessionID != "" {
		store.id = transcript.SessionID
	}
	store.messages = transcript.Messages
	return store, nil
}
