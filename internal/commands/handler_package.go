package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

const packageHelp = `You can use the following options with this command:

	list - lists every package revision
	new <name> - creates a package under design
	show <package> - shows a package revision
	rename <package> <name> - renames a package revision
	revise <package> - copies a revision into a new one under design
	submit <package> - submits a revision for review
	approve <package> - makes a revision current everywhere it has overlays
	reject <package> - rejects a submitted revision
	obsolete <package> - retires a revision
	preview <package>|none - sees the world as a revision would show it

A package is an id, an id:revision pair or a name. Without a revision the
latest revision is used.`

// PackageHandlerFactory creates handlers that manage overlay packages.
// Config:
//   - args (required): the sub-command and its arguments
type PackageHandlerFactory struct {
	world *game.World
}

func NewPackageHandlerFactory(world *game.World) *PackageHandlerFactory {
	return &PackageHandlerFactory{world: world}
}

func (f *PackageHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *PackageHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *PackageHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		verb := ss.PopLower()
		switch verb {
		case "list":
			cmdCtx.Actor.Send(f.list())
			return nil
		case "new", "create":
			name := ss.RemainingArgument()
			if name == "" {
				return NewUserError("What name do you want to give to the new package?")
			}
			pkg, err := f.world.CreatePackage(ctx, name)
			if err != nil {
				return err
			}
			cmdCtx.Actor.SetPreview(pkg)
			cmdCtx.Actor.Send(fmt.Sprintf("You create package %s (%s) and begin previewing it.", pkg.Key(), pkg.Name()))
			return nil
		case "preview":
			if arg := ss.Peek(); strings.EqualFold(arg, "none") || arg == "" {
				cmdCtx.Actor.SetPreview(nil)
				cmdCtx.Actor.Send("You are no longer previewing a package.")
				return nil
			}
		case "show", "rename", "revise", "submit", "approve", "reject", "obsolete":
		default:
			return NewUserError(packageHelp)
		}

		pkg, err := f.resolve(ss.Pop())
		if err != nil {
			return err
		}
		msg, err := f.apply(ctx, cmdCtx, verb, pkg, ss)
		if err != nil {
			return err
		}
		cmdCtx.Actor.Send(msg)
		return nil
	}, nil
}

func (f *PackageHandlerFactory) apply(ctx context.Context, cmdCtx *CommandContext, verb string, pkg *game.OverlayPackage, ss *game.StringStack) (string, error) {
	switch verb {
	case "show":
		return fmt.Sprintf("Package %s (%s) is %s and has %d overlays.",
			pkg.Key(), pkg.Name(), pkg.Status(), len(f.world.OverlaysFor(pkg.Key()))), nil
	case "rename":
		name := ss.RemainingArgument()
		if name == "" {
			return "", NewUserError("What name do you want to give to the package?")
		}
		pkg.SetName(f.world, name)
		return fmt.Sprintf("Package %s is now called %s.", pkg.Key(), name), nil
	case "revise":
		np, err := pkg.CreateNewRevision(ctx, f.world)
		if err != nil {
			return "", err
		}
		cmdCtx.Actor.SetPreview(np)
		return fmt.Sprintf("You create revision %s of %s and begin previewing it.", np.Key(), np.Name()), nil
	case "submit":
		if err := pkg.Submit(f.world); err != nil {
			return "", err
		}
		return fmt.Sprintf("You submit package %s for review.", pkg.Key()), nil
	case "approve":
		if err := pkg.Approve(f.world); err != nil {
			return "", err
		}
		return fmt.Sprintf("Package %s is now current in %d cells.", pkg.Key(), len(f.world.OverlaysFor(pkg.Key()))), nil
	case "reject":
		if err := pkg.Reject(f.world); err != nil {
			return "", err
		}
		return fmt.Sprintf("You reject package %s.", pkg.Key()), nil
	case "obsolete":
		if err := pkg.Obsolete(f.world); err != nil {
			return "", err
		}
		return fmt.Sprintf("Package %s is now obsolete.", pkg.Key()), nil
	case "preview":
		cmdCtx.Actor.SetPreview(pkg)
		return fmt.Sprintf("You are now previewing package %s (%s).", pkg.Key(), pkg.Name()), nil
	}
	return "", NewUserError(packageHelp)
}

func (f *PackageHandlerFactory) list() string {
	pkgs := f.world.Packages()
	if len(pkgs) == 0 {
		return "There are no packages."
	}
	lines := []string{"Packages:"}
	for _, p := range pkgs {
		lines = append(lines, fmt.Sprintf("  %-8s %-30s %s", p.Key(), p.Name(), p.Status()))
	}
	return strings.Join(lines, "\n")
}

// resolve finds a package revision from an id, id:revision or name.
func (f *PackageHandlerFactory) resolve(arg string) (*game.OverlayPackage, error) {
	if arg == "" {
		return nil, NewUserError("Which package do you mean?")
	}

	if idPart, revPart, ok := strings.Cut(arg, ":"); ok {
		id, err1 := strconv.ParseInt(idPart, 10, 64)
		rev, err2 := strconv.Atoi(revPart)
		if err1 == nil && err2 == nil {
			if p, ok := f.world.Package(game.PackageKey{ID: id, Revision: rev}); ok {
				return p, nil
			}
		}
		return nil, NewUserError(fmt.Sprintf("There is no package revision %q.", arg))
	}

	var revisions []*game.OverlayPackage
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		revisions = f.world.PackageRevisions(id)
	} else {
		for _, p := range f.world.Packages() {
			if strings.EqualFold(p.Name(), arg) {
				revisions = append(revisions, p)
			}
		}
	}
	if len(revisions) == 0 {
		return nil, NewUserError(fmt.Sprintf("There is no package identified by %q.", arg))
	}
	// Packages sort by id then revision, so the last is the newest.
	return revisions[len(revisions)-1], nil
}
