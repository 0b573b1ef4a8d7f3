// Package session runs builder sessions: login, placement in the world and
// the command loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/futuremud/futuremud/internal"
	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/commands"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/messaging"
	"github.com/futuremud/futuremud/internal/storage"
)

var ErrAlreadyConnected = errors.New("character already connected")

// Subscriber delivers messages published on a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Manager owns every live session.
type Manager struct {
	world    *game.World
	cmds     *commands.Handler
	profiles storage.Storer[*actor.Profile]
	starts   *storage.SelectableStorer[*actor.StartLocation]
	subs     Subscriber
	pub      game.Publisher
	welcome  string

	mu     sync.Mutex
	online map[int64]uuid.UUID
}

func NewManager(
	world *game.World,
	cmds *commands.Handler,
	profiles storage.Storer[*actor.Profile],
	starts *storage.SelectableStorer[*actor.StartLocation],
	subs Subscriber,
	pub game.Publisher,
	opts ...ManagerOpt,
) *Manager {
	m := &Manager{
		world:    world,
		cmds:     cmds,
		profiles: profiles,
		starts:   starts,
		subs:     subs,
		pub:      pub,
		welcome:  "Welcome to FutureMUD!",
		online:   make(map[int64]uuid.UUID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type ManagerOpt func(*Manager)

// WithWelcome replaces the banner shown before login.
func WithWelcome(s string) ManagerOpt {
	return func(m *Manager) { m.welcome = s }
}

// OnlineCount is the number of characters in the world.
func (m *Manager) OnlineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.online)
}

// RunSession logs a builder in and plays until they quit or disconnect.
func (m *Manager) RunSession(ctx context.Context, id uuid.UUID, conn io.ReadWriter) error {
	term := internal.NewTerminal(conn)
	if err := term.Writef("%s\n", m.welcome); err != nil {
		return err
	}

	profile, err := (&loginFlow{profiles: m.profiles}).Run(term)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	if err := m.claim(profile.ID, id); err != nil {
		_ = term.Writef("%s is already connected.\n", profile.Name)
		return err
	}
	defer m.release(profile.ID)

	start, err := m.startCell(term, profile)
	if err != nil {
		_ = term.Writef("There is nowhere for you to go. Please try again later.\n")
		return err
	}

	s := &session{
		id:   id,
		term: term,
		cmds: m.cmds,
		msgs: make(chan []byte, 64),
	}
	unsubscribe, err := m.subs.Subscribe(messaging.CharacterSubject(profile.ID), func(data []byte) {
		select {
		case s.msgs <- data:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to output: %w", err)
	}
	defer unsubscribe()

	err = m.world.Do(func() error {
		s.char = actor.NewCharacter(profile, m.pub)
		if err := start.Enter(s.char); err != nil {
			return err
		}
		m.world.Characters.Add(s.char)
		start.Echo(fmt.Sprintf("%s appears.", s.char.Name()))
		return nil
	})
	if err != nil {
		return fmt.Errorf("entering world: %w", err)
	}
	slog.InfoContext(ctx, "character entered world", "session", id, "character", profile.ID, "cell", start.ID())
	defer m.leave(ctx, s, profile)

	return s.play(ctx, m.world)
}

func (m *Manager) claim(charID int64, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.online[charID]; ok {
		return ErrAlreadyConnected
	}
	m.online[charID] = id
	return nil
}

func (m *Manager) release(charID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.online, charID)
}

// startCell is the cell the profile last stood in, or a start location.
func (m *Manager) startCell(term *internal.Terminal, p *actor.Profile) (*game.Cell, error) {
	var cell *game.Cell
	_ = m.world.Do(func() error {
		cell, _ = m.world.Cells.Get(p.LastCell)
		return nil
	})
	if cell != nil {
		return cell, nil
	}

	if m.starts == nil || m.starts.Len() == 0 {
		return nil, fmt.Errorf("no start locations configured")
	}
	var loc *actor.StartLocation
	if m.starts.Len() == 1 {
		loc = m.starts.Get(m.starts.Select(1))
	} else {
		_, sel, err := m.starts.Prompt(term, "Where do you wish to begin?")
		if err != nil {
			return nil, err
		}
		loc = sel
	}

	_ = m.world.Do(func() error {
		cell, _ = m.world.Cells.Get(loc.Cell)
		return nil
	})
	if cell == nil {
		return nil, fmt.Errorf("start location %q: cell %d: %w", loc.Name, loc.Cell, game.ErrNotFound)
	}
	return cell, nil
}

// leave takes the character out of the world and remembers where it was.
func (m *Manager) leave(ctx context.Context, s *session, p *actor.Profile) {
	err := m.world.Do(func() error {
		m.world.Characters.Remove(s.char.ID())
		cell := s.char.Location()
		if cell == nil {
			return nil
		}
		p.LastCell = cell.ID()
		if err := cell.Leave(s.char); err != nil {
			return err
		}
		cell.Echo(fmt.Sprintf("%s vanishes.", s.char.Name()))
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "removing character from world", "character", p.ID, "error", err)
	}
	if err := m.profiles.Save(profileKey(p.Name), p); err != nil {
		slog.WarnContext(ctx, "saving profile", "character", p.ID, "error", err)
	}
	slog.InfoContext(ctx, "character left world", "session", s.id, "character", p.ID)
}

func profileKey(name string) string {
	return strings.ToLower(name)
}
