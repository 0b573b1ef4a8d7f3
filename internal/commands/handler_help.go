package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/futuremud/futuremud/internal/storage"
)

// HelpHandlerFactory creates handlers that display command help.
type HelpHandlerFactory struct {
	commands storage.Storer[*Command]
}

// NewHelpHandlerFactory creates a new HelpHandlerFactory.
func NewHelpHandlerFactory(commands storage.Storer[*Command]) *HelpHandlerFactory {
	return &HelpHandlerFactory{commands: commands}
}

func (f *HelpHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "command", Required: false},
		},
	}
}

func (f *HelpHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *HelpHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		admin := cmdCtx.Actor.IsAdministrator()

		if command := cmdCtx.Config["command"]; command != "" {
			msg, err := f.showCommand(command, admin)
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(msg)
			return nil
		}

		cmdCtx.Actor.Send(f.listCommands(admin))
		return nil
	}, nil
}

// listCommands lists the commands the actor may use grouped by category.
func (f *HelpHandlerFactory) listCommands(admin bool) string {
	groups := make(map[string][]string)
	for id, cmd := range f.commands.GetAll() {
		if cmd.Admin && !admin {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "other"
		}
		groups[category] = append(groups[category], id)
	}

	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	lines := []string{"Available commands:"}
	for _, cat := range categories {
		cmds := groups[cat]
		sort.Strings(cmds)
		label := strings.ToUpper(cat[:1]) + cat[1:]
		lines = append(lines, fmt.Sprintf("  %s: %s", label, strings.Join(cmds, ", ")))
	}
	return strings.Join(lines, "\n")
}

// showCommand describes one command and its usage.
func (f *HelpHandlerFactory) showCommand(name string, admin bool) (string, error) {
	name = strings.ToLower(name)
	cmd := f.commands.Get(name)
	if cmd == nil || (cmd.Admin && !admin) {
		return "", NewUserError(fmt.Sprintf("Command %q is unknown.", name))
	}

	lines := []string{fmt.Sprintf("%s: %s", name, cmd.Description)}

	// Build usage line from inputs
	if len(cmd.Inputs) > 0 {
		parts := []string{name}
		for _, input := range cmd.Inputs {
			label := input.Name
			if input.Rest {
				label += "..."
			}
			if input.Required {
				parts = append(parts, fmt.Sprintf("<%s>", label))
			} else {
				parts = append(parts, fmt.Sprintf("[%s]", label))
			}
		}
		lines = append(lines, fmt.Sprintf("Usage: %s", strings.Join(parts, " ")))
	}
	return strings.Join(lines, "\n"), nil
}
