package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vk/caproute/internal/provider"
	"gopkg.in/yaml.v3"
)

// Registration is one row of the registration snapshot.
type Registration struct {
	Role       string `yaml:"role"`
	Capability string `yaml:"capability"`
	Provider   string `yaml:"provider"`
}

// Snapshot lists all in-process registrations in table order.
func (a *App) Snapshot() []Registration {
	entries := a.registry.Entries()
	out := make([]Registration, 0, len(entries))
	for _, e := range entries {
		out = append(out, Registration{
			Role:       e.Role.Name,
			Capability: e.Capability.String(),
			Provider:   provider.Describe(e.Provider),
		})
	}
	return out
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteSnapshot renders regs as a text table or as YAML.
func WriteSnapshot(w io.Writer, regs []Registration, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]Registration{"registrations": regs}); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		rows := make([][]string, 0, len(regs))
		for _, r := range regs {
			rows = append(rows, []string{r.Role, r.Capability, r.Provider})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("ROLE", "CAPABILITY", "PROVIDER").
			Rows(rows...)
		_, err := fmt.Fprintln(w, t.Render())
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
