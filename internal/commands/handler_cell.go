package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

const cellHelp = `You can use the following options with this command:

	show - shows the cell you are in
	new [temporary] - adds a cell to the room you are in
	delete <fallback cell> - deletes the cell you are in, moving its contents
	overlay <package> - makes the cell use its overlay from another package
	set <option> - edits the cell, see cell set`

// CellHandlerFactory creates handlers that build the cell the actor is in.
// Config:
//   - args (required): the sub-command and its arguments
type CellHandlerFactory struct {
	world *game.World
	pkgs  *PackageHandlerFactory
}

func NewCellHandlerFactory(world *game.World) *CellHandlerFactory {
	return &CellHandlerFactory{world: world, pkgs: NewPackageHandlerFactory(world)}
}

func (f *CellHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *CellHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *CellHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		ss := cmdCtx.Args("args")
		switch ss.PopLower() {
		case "show", "":
			cmdCtx.Actor.Send(showProperties(fmt.Sprintf("Cell #%d:", cell.ID()), cell))
			return nil
		case "new", "add":
			return f.newCell(ctx, cmdCtx, cell, strings.EqualFold(ss.Pop(), "temporary"))
		case "delete", "destroy":
			return f.deleteCell(cmdCtx, cell, ss.Pop())
		case "overlay":
			pkg, err := f.pkgs.resolve(ss.Pop())
			if err != nil {
				return err
			}
			if !cell.SetCurrentOverlay(pkg) {
				return NewUserError(fmt.Sprintf("This cell has no overlay in package %s.", pkg.Key()))
			}
			cmdCtx.Actor.Send(fmt.Sprintf("This cell now uses its overlay from package %s.", pkg.Key()))
			return nil
		case "set", "edit":
			return runBuilder(cmdCtx, f.world, cell, ss)
		default:
			return NewUserError(cellHelp)
		}
	}, nil
}

func (f *CellHandlerFactory) newCell(ctx context.Context, cmdCtx *CommandContext, cell *game.Cell, temporary bool) error {
	room := cell.Room()
	if room == nil {
		return NewUserError("This cell is not in a room.")
	}
	pkg := editingPackage(f.world, cmdCtx, cell)
	created, err := f.world.CreateCell(ctx, room, pkg, temporary)
	if err != nil {
		return err
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You add cell #%d to room #%d in package %s.", created.ID(), room.ID(), pkg.Key()))
	return nil
}

func (f *CellHandlerFactory) deleteCell(cmdCtx *CommandContext, cell *game.Cell, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return NewUserError("Which cell should receive everything in this one?")
	}
	fallback, ok := f.world.Cells.Get(id)
	if !ok || fallback == cell {
		return NewUserError(fmt.Sprintf("Cell #%d cannot receive the contents of this cell.", id))
	}
	if room := cell.Room(); room != nil && len(room.Cells()) == 1 {
		return NewUserError("This is the only cell in the room. Use room destroy instead.")
	}
	deleted := cell.ID()
	if err := cell.Destroy(fallback); err != nil {
		return err
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You delete cell #%d.", deleted))
	return nil
}

const overlayHelp = `You can use the following options with this command:

	show - shows the overlay you are editing
	add - copies the current overlay into the package you are previewing
	<option> - edits the overlay`

// OverlayHandlerFactory creates handlers that edit the overlay of the
// actor's cell for the package the actor previews, or the current overlay.
// Config:
//   - args (required): the sub-command and its arguments
type OverlayHandlerFactory struct {
	world *game.World
}

func NewOverlayHandlerFactory(world *game.World) *OverlayHandlerFactory {
	return &OverlayHandlerFactory{world: world}
}

func (f *OverlayHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *OverlayHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *OverlayHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		ss := cmdCtx.Args("args")
		switch strings.ToLower(ss.Peek()) {
		case "add", "clone":
			return f.add(ctx, cmdCtx, cell)
		case "help":
			return NewUserError(overlayHelp)
		}

		o, err := f.editing(cmdCtx, cell)
		if err != nil {
			return err
		}
		if s := strings.ToLower(ss.Peek()); s == "" || s == "show" {
			cmdCtx.Actor.Send(describeOverlay(o))
			return nil
		}
		return runBuilder(cmdCtx, f.world, o, ss)
	}, nil
}

func (f *OverlayHandlerFactory) add(ctx context.Context, cmdCtx *CommandContext, cell *game.Cell) error {
	key, ok := cmdCtx.Actor.PreviewPackage()
	if !ok {
		return NewUserError("You must be previewing a package to add an overlay to it.")
	}
	pkg, ok := f.world.Package(key)
	if !ok {
		return NewUserError(fmt.Sprintf("Package %s no longer exists.", key))
	}
	if pkg.Status() != game.UnderDesign {
		return NewUserError(fmt.Sprintf("Package %s is %s and cannot be changed.", key, pkg.Status()))
	}
	o, err := cell.CurrentOverlay().CreateClone(ctx, f.world, pkg)
	if err != nil {
		return err
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You add overlay #%d for cell #%d to package %s.", o.ID(), cell.ID(), key))
	return nil
}

func (f *OverlayHandlerFactory) editing(cmdCtx *CommandContext, cell *game.Cell) (*game.CellOverlay, error) {
	if key, ok := cmdCtx.Actor.PreviewPackage(); ok {
		o, ok := cell.OverlayFor(key)
		if !ok {
			return nil, NewUserError(fmt.Sprintf("This cell has no overlay in package %s. Use overlay add first.", key))
		}
		return o, nil
	}
	return cell.CurrentOverlay(), nil
}

func describeOverlay(o *game.CellOverlay) string {
	terrain := "none"
	if o.Terrain != nil {
		terrain = o.Terrain.Name()
	}
	atmosphere := "none"
	if o.Atmosphere != nil {
		atmosphere = o.Atmosphere.Name()
	}
	pkg := o.Package()
	lines := []string{
		fmt.Sprintf("Overlay #%d of cell #%d in package %s (%s, %s):", o.ID(), o.Cell().ID(), pkg.Key(), pkg.Name(), pkg.Status()),
		fmt.Sprintf("  Name:        %s", o.Name),
		fmt.Sprintf("  Terrain:     %s", terrain),
		fmt.Sprintf("  Outdoors:    %s", o.OutdoorsType),
		fmt.Sprintf("  Light:       %.2f ambient, %.2f lux added", o.AmbientLightFactor, o.AddedLight),
		fmt.Sprintf("  Atmosphere:  %s", atmosphere),
		fmt.Sprintf("  Safe quit:   %t", o.SafeQuit),
		fmt.Sprintf("  Exits:       %s", formatProperty(o.ExitIDs)),
		"",
		o.Description,
	}
	return strings.Join(lines, "\n")
}

// editingPackage is the package new building goes into: the one the actor
// previews, or the package of the cell's current overlay.
func editingPackage(w *game.World, cmdCtx *CommandContext, cell *game.Cell) *game.OverlayPackage {
	if key, ok := cmdCtx.Actor.PreviewPackage(); ok {
		if pkg, ok := w.Package(key); ok {
			return pkg
		}
	}
	return cell.CurrentOverlay().Package()
}
