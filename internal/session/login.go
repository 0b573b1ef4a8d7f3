package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/futuremud/futuremud/internal"
	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/storage"
)

const (
	maxPasswordTries = 3
	minPasswordLen   = 4
)

type loginFlow struct {
	profiles storage.Storer[*actor.Profile]
}

func (f *loginFlow) Run(term *internal.Terminal) (*actor.Profile, error) {
	for {
		name, err := term.Prompt("By what name do you wish to be known? ",
			internal.WithValidator(validName))
		if err != nil {
			return nil, err
		}

		p := f.profiles.Get(profileKey(name))
		if p == nil {
			p, err = f.newProfile(term, name)
			if err != nil {
				return nil, err
			}
			if p == nil {
				continue
			}
			return p, nil
		}

		_, err = term.Prompt("Password: ", internal.WithMaxTries(maxPasswordTries), internal.WithValidator(
			func(str string) (bool, string) {
				if !p.CheckPassword(str) {
					return false, "Wrong password.\n"
				}
				return true, ""
			},
		))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func validName(str string) (bool, string) {
	if len(str) < 2 || len(str) > 20 {
		return false, "Names must be between 2 and 20 letters long.\n"
	}
	for _, r := range str {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false, "Names may only contain letters.\n"
		}
	}
	return true, ""
}

// newProfile creates and saves a profile, or returns nil if the builder
// did not confirm the name.
func (f *loginFlow) newProfile(term *internal.Terminal, name string) (*actor.Profile, error) {
	name = strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	ok, err := term.PromptYN(fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	for {
		passOne, err := term.Prompt(fmt.Sprintf("Give me a password for %s: ", name), internal.WithValidator(
			func(str string) (bool, string) {
				if len(str) < minPasswordLen || strings.EqualFold(str, name) {
					return false, "Illegal password.\n"
				}
				return true, ""
			},
		))
		if err != nil {
			return nil, err
		}

		passTwo, err := term.Prompt("Please retype password: ")
		if err != nil {
			return nil, err
		}
		if passOne != passTwo {
			if err := term.Writef("Passwords don't match... start over.\n"); err != nil {
				return nil, err
			}
			continue
		}

		// The first builder to register runs the place.
		p := &actor.Profile{ID: f.nextID(), Name: name, Administrator: len(f.profiles.GetAll()) == 0}
		if err := p.SetPassword(passOne); err != nil {
			return nil, err
		}
		if err := f.profiles.Save(profileKey(name), p); err != nil {
			return nil, fmt.Errorf("saving profile: %w", err)
		}
		return p, nil
	}
}

func (f *loginFlow) nextID() int64 {
	var id int64
	for _, p := range f.profiles.GetAll() {
		id = max(id, p.ID)
	}
	return id + 1
}
