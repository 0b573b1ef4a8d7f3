package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

const roomHelp = `You can use the following options with this command:

	show - shows the room you are in
	dig <direction> - creates a room in that direction and links it
	link <direction> <cell> - adds an exit from here to another cell
	unlink <direction> - removes an exit
	door <direction> none|open|closed - sets the door of an exit
	fall <direction> on|off - sets whether things fall through an exit
	destroy <fallback cell> - destroys the room you are in, moving its contents
	set <option> - edits the room, see room set`

// RoomHandlerFactory creates handlers that build rooms and exits around
// the actor.
// Config:
//   - args (required): the sub-command and its arguments
type RoomHandlerFactory struct {
	world *game.World
}

func NewRoomHandlerFactory(world *game.World) *RoomHandlerFactory {
	return &RoomHandlerFactory{world: world}
}

func (f *RoomHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *RoomHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *RoomHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}
		room := cell.Room()
		if room == nil {
			return NewUserError("This cell is not in a room.")
		}

		ss := cmdCtx.Args("args")
		verb := ss.PopLower()
		switch verb {
		case "show", "":
			cmdCtx.Actor.Send(showProperties(fmt.Sprintf("Room #%d:", room.ID()), room))
			return nil
		case "set", "edit":
			return runBuilder(cmdCtx, f.world, room, ss)
		case "destroy", "delete":
			return f.destroy(cmdCtx, room, ss.Pop())
		case "dig", "link", "unlink", "door", "fall":
		default:
			return NewUserError(roomHelp)
		}

		arg := ss.Pop()
		dir, err := game.ParseDirection(arg)
		if err != nil {
			return NewUserError(fmt.Sprintf("%q is not a direction.", arg))
		}

		var msg string
		switch verb {
		case "dig":
			msg, err = f.dig(ctx, cmdCtx, cell, dir)
		case "link":
			msg, err = f.link(ctx, cell, dir, ss.Pop())
		default:
			exit, ok := f.world.Exits.ExitFrom(cell, dir)
			if !ok {
				return NewUserError(fmt.Sprintf("There is no exit %s.", dir))
			}
			msg, err = f.editExit(verb, exit, dir, strings.ToLower(ss.Pop()))
		}
		if err != nil {
			return err
		}
		cmdCtx.Actor.Send(msg)
		return nil
	}, nil
}

func (f *RoomHandlerFactory) dig(ctx context.Context, cmdCtx *CommandContext, cell *game.Cell, dir game.Direction) (string, error) {
	if _, ok := f.world.Exits.ExitFrom(cell, dir); ok {
		return "", NewUserError(fmt.Sprintf("There is already an exit %s.", dir))
	}
	room := cell.Room()
	zone := room.Zone()
	if zone == nil || zone.Shard() == nil {
		return "", NewUserError("This room is not in a zone.")
	}
	dx, dy, dz := dir.Offset()
	x, y, z := room.X+dx, room.Y+dy, room.Z+dz
	if rooms := zone.Shard().RoomsAt(zone, x, y, z); len(rooms) > 0 {
		return "", NewUserError(fmt.Sprintf("Room #%d is already %s. Use room link instead.", rooms[0].ID(), dir))
	}

	newRoom, newCell, err := f.world.CreateRoom(ctx, zone, editingPackage(f.world, cmdCtx, cell), x, y, z)
	if err != nil {
		return "", err
	}
	if _, err := f.world.Exits.Link(ctx, cell, dir, newCell); err != nil {
		return "", err
	}
	return fmt.Sprintf("You dig %s into new room #%d (cell #%d) at %d,%d,%d.", dir, newRoom.ID(), newCell.ID(), x, y, z), nil
}

func (f *RoomHandlerFactory) link(ctx context.Context, cell *game.Cell, dir game.Direction, arg string) (string, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "", NewUserError("Which cell id do you want to link to?")
	}
	dest, ok := f.world.Cells.Get(id)
	if !ok || dest == cell {
		return "", NewUserError(fmt.Sprintf("You cannot link to cell #%d.", id))
	}
	exit, err := f.world.Exits.Link(ctx, cell, dir, dest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("You create exit #%d %s to cell #%d.", exit.ID(), dir, id), nil
}

func (f *RoomHandlerFactory) editExit(verb string, exit *game.Exit, dir game.Direction, arg string) (string, error) {
	switch verb {
	case "unlink":
		f.world.Exits.Remove(exit)
		return fmt.Sprintf("You remove the exit %s.", dir), nil
	case "door":
		switch arg {
		case "none":
			f.world.Exits.SetDoor(exit, false, false)
			return fmt.Sprintf("The exit %s no longer has a door.", dir), nil
		case "open":
			f.world.Exits.SetDoor(exit, true, true)
			return fmt.Sprintf("The door %s is now open.", dir), nil
		case "closed", "close":
			f.world.Exits.SetDoor(exit, true, false)
			return fmt.Sprintf("The door %s is now closed.", dir), nil
		}
		return "", NewUserError("Should the door be none, open or closed?")
	case "fall":
		switch arg {
		case "on", "yes", "true":
			f.world.Exits.SetAcceptsFall(exit, true)
			return fmt.Sprintf("Things can now fall through the exit %s.", dir), nil
		case "off", "no", "false":
			f.world.Exits.SetAcceptsFall(exit, false)
			return fmt.Sprintf("Things can no longer fall through the exit %s.", dir), nil
		}
		return "", NewUserError("Should things fall through the exit, on or off?")
	}
	return "", NewUserError(roomHelp)
}

func (f *RoomHandlerFactory) destroy(cmdCtx *CommandContext, room *game.Room, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return NewUserError("Which cell should receive everything in this room?")
	}
	fallback, ok := f.world.Cells.Get(id)
	if !ok || fallback.Room() == room {
		return NewUserError(fmt.Sprintf("Cell #%d cannot receive the contents of this room.", id))
	}
	destroyed := room.ID()
	if err := room.DestroyRoom(fallback); err != nil {
		return err
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You destroy room #%d.", destroyed))
	return nil
}
