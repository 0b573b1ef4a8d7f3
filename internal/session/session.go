package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/futuremud/futuremud/internal"
	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/commands"
	"github.com/futuremud/futuremud/internal/display"
	"github.com/futuremud/futuremud/internal/game"
)

type session struct {
	id   uuid.UUID
	term *internal.Terminal
	cmds *commands.Handler
	char *actor.Character
	msgs chan []byte
}

func (s *session) play(ctx context.Context, w *game.World) error {
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		for {
			line, err := s.term.ReadLine()
			if err != nil {
				inputErrChan <- err
				return
			}
			select {
			case inputChan <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	state := &commands.SessionState{}
	if err := s.exec(ctx, w, state, "look"); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = s.writeLine("\nThe world is shutting down.")
			return nil

		case msg := <-s.msgs:
			if err := s.writeLine("\n" + string(msg)); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return ignoreEOF(err)
				default:
					return nil
				}
			}

			if err := s.exec(ctx, w, state, line); err != nil {
				return err
			}
			if state.Quit {
				s.drain()
				return nil
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// exec runs one line under the world lock. User errors are shown to the
// builder; anything else ends the session.
func (s *session) exec(ctx context.Context, w *game.World, state *commands.SessionState, line string) error {
	err := w.Do(func() error {
		return s.cmds.Exec(ctx, s.char, state, line)
	})
	if err == nil {
		return nil
	}

	var userErr *commands.UserError
	if errors.As(err, &userErr) {
		return s.writeLine(userErr.Message)
	}
	slog.ErrorContext(ctx, "command failed", "session", s.id, "character", s.char.ID(), "line", line, "error", err)
	_ = s.writeLine("Something went wrong with that command.")
	return fmt.Errorf("command execution failed: %w", err)
}

// drain writes output already queued for the session.
func (s *session) drain() {
	for {
		select {
		case msg := <-s.msgs:
			_ = s.writeLine(string(msg))
		default:
			return
		}
	}
}

func (s *session) prompt() error {
	return s.term.Writef("> ")
}

func (s *session) writeLine(msg string) error {
	return s.term.Writef("%s\n", display.Wrap(display.Colourize(msg)))
}

// ignoreEOF treats a closed connection as a normal end of session.
func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
