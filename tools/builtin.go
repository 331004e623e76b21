// tools/builtin.go
package tools

import (
	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/jira"
)

// NewDefaultRegistry builds the standard tool set: the chat tools
// followed by the Jira tools. Registration order is fixed because it
// drives prompt listing and keyword detection order.
func NewDefaultRegistry(cfg *config.Config, jiraClient *jira.Client) (*Registry, error) {
	search, err := NewSearchTool(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	all := []Tool{
		NewHelloTool(),
		NewCalculatorTool(),
		NewWeatherTool(),
		NewClockTool(),
		search,
		NewJokeTool(),
	}
	all = append(all, NewJiraTools(jiraClient, cfg.Jira.MaxResults)...)

	reg := NewRegistry()
	for _, tool := range all {
		if err := reg.Register(tool); err != nil {
			search.Close()
			reg.Close()
			return nil, err
		}
	}
	return reg, nil
}
