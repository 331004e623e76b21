// tools/joke.go
package tools

import (
	"context"
	"fmt"
	"strings"
)

// jokeEntries is scanned in order for partial matches, so the order is
// part of the behavior.
var jokeEntries = []struct {
	topic string
	joke  string
}{
	{"programming", "Why do programmers prefer dark mode? Because light attracts bugs!"},
	{"ai", "Why did the AI go to therapy? It had too many deep learning issues!"},
	{"computer", "Why don't computers ever get cold? They have Windows!"},
	{"python", "Why do Python programmers prefer snakes? Because they're already used to dealing with bugs!"},
	{"cat", "Why don't cats make good quantum physicists? Because they always land on their feet!"},
	{"dog", "Why do dogs make terrible DJs? Because they have such ruff beats!"},
}

// JokeTool tells a joke about a topic.
type JokeTool struct {
	base
}

// NewJokeTool creates the joke tool
func NewJokeTool() *JokeTool {
	return &JokeTool{base: base{
		name:                 "joke_tool",
		description:          "Tell a joke about a specific topic",
		parameterName:        "topic",
		parameterDescription: "The topic for the joke",
		defaultArgument:      "programming",
		keywords:             []string{"joke", "funny", "laugh"},
	}}
}

// Invoke looks for an exact topic first, then a partial match in either
// direction, then falls back to a generic joke.
func (t *JokeTool) Invoke(ctx context.Context, arg string) (string, error) {
	topic := strings.TrimSpace(arg)
	if topic == "" {
		topic = t.defaultArgument
	}
	topicLower := strings.ToLower(topic)

	for _, entry := range jokeEntries {
		if entry.topic == topicLower {
			return entry.joke, nil
		}
	}
	for _, entry := range jokeEntries {
		if strings.Contains(topicLower, entry.topic) || strings.Contains(entry.topic, topicLower) {
			return entry.joke, nil
		}
	}

	return fmt.Sprintf(
		"Why did the %s cross the road? To get to the other side! (Sorry, I don't have a specific joke about %s yet!)",
		topic, topic,
	), nil
}
