package commands

import (
	"fmt"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

// builder is anything edited with building sub-commands.
type builder interface {
	BuildingCommand(w *game.World, ss *game.StringStack) (string, error)
}

func runBuilder(cmdCtx *CommandContext, w *game.World, b builder, ss *game.StringStack) error {
	out, err := b.BuildingCommand(w, ss)
	if err != nil {
		return err
	}
	cmdCtx.Actor.Send(out)
	return nil
}

type named interface {
	ID() int64
	Name() string
}

// formatProperty renders a property value for builders.
func formatProperty(v any) string {
	switch x := v.(type) {
	case nil:
		return "none"
	case named:
		return fmt.Sprintf("%s (#%d)", x.Name(), x.ID())
	case fmt.Stringer:
		return x.String()
	case float64:
		return fmt.Sprintf("%.4g", x)
	case []int64:
		if len(x) == 0 {
			return "none"
		}
		parts := make([]string, len(x))
		for i, id := range x {
			parts[i] = fmt.Sprintf("#%d", id)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

// showProperties lists every property of h with its value.
func showProperties(title string, h game.PropertyHolder) string {
	lines := []string{title}
	for _, name := range game.PropertyNames(h) {
		v, _ := h.GetProperty(name)
		lines = append(lines, fmt.Sprintf("  %-20s %s", name+":", formatProperty(v)))
	}
	return strings.Join(lines, "\n")
}

func listNamed[T named](title string, items []T, extra func(T) string) string {
	if len(items) == 0 {
		return title + " none"
	}
	lines := []string{title}
	for _, it := range items {
		line := fmt.Sprintf("  #%-5d %s", it.ID(), it.Name())
		if extra != nil {
			if s := extra(it); s != "" {
				line += " " + s
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
