package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrTooManyTries = errors.New("too many tries")

// Terminal is a line-oriented view of a connection. Every read goes through
// one buffered reader so lines typed ahead of a prompt are not lost.
type Terminal struct {
	rw    io.ReadWriter
	lines *bufio.Reader
}

func NewTerminal(rw io.ReadWriter) *Terminal {
	return &Terminal{rw: rw, lines: bufio.NewReader(rw)}
}

func (t *Terminal) Read(p []byte) (int, error) {
	return t.lines.Read(p)
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.rw.Write(p)
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned before io.EOF.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type PromptOption func(*promptConfig)

// WithValidator rejects input until v accepts it, writing v's message on
// each rejection.
func WithValidator(v promptValidator) PromptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) PromptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

func (t *Terminal) Prompt(prompt string, opts ...PromptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	for tries := 1; ; tries++ {
		if _, err := io.WriteString(t, prompt); err != nil {
			return "", err
		}
		input, err := t.ReadLine()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)

		if config.validator == nil {
			return input, nil
		}
		ok, msg := config.validator(input)
		if ok {
			return input, nil
		}
		if _, err := io.WriteString(t, msg); err != nil {
			return "", err
		}
		if config.tries > 0 && tries >= config.tries {
			return "", ErrTooManyTries
		}
	}
}

func (t *Terminal) PromptYN(prompt string) (bool, error) {
	str, err := t.Prompt(prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "Enter 'yes' or 'no'.\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(str) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Writef writes formatted text to the connection.
func (t *Terminal) Writef(format string, args ...any) error {
	_, err := fmt.Fprintf(t, format, args...)
	return err
}
