package internal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeConn struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newFakeConn(input string) *fakeConn {
	return &fakeConn{in: strings.NewReader(input)}
}

func (c *fakeConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *fakeConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func TestTerminal_Prompt(t *testing.T) {
	notEmpty := WithValidator(func(s string) (bool, string) {
		if s == "" {
			return false, "Try again.\n"
		}
		return true, ""
	})

	tests := map[string]struct {
		input    string
		opts     []PromptOption
		exp      string
		expErr   error
		expWrote string
	}{
		"plain line": {
			input:    "Ana\r\n",
			exp:      "Ana",
			expWrote: "> ",
		},
		"last line without newline": {
			input: "Ana",
			exp:   "Ana",
		},
		"validator retries": {
			input:    "\nAna\n",
			opts:     []PromptOption{notEmpty},
			exp:      "Ana",
			expWrote: "> Try again.\n> ",
		},
		"too many tries": {
			input:  "\n\n\n",
			opts:   []PromptOption{notEmpty, WithMaxTries(2)},
			expErr: ErrTooManyTries,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conn := newFakeConn(tt.input)
			got, err := NewTerminal(conn).Prompt("> ", tt.opts...)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "input", got, tt.exp)
			if tt.expWrote != "" {
				testutil.AssertEqual(t, "written", conn.out.String(), tt.expWrote)
			}
		})
	}
}

func TestTerminal_KeepsTypedAhead(t *testing.T) {
	term := NewTerminal(newFakeConn("Ana\nsecret\nlook\n"))
	for _, exp := range []string{"Ana", "secret"} {
		got, err := term.Prompt("> ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "prompt", got, exp)
	}
	line, err := term.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "line", line, "look")
}

func TestTerminal_PromptYN(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   bool
	}{
		"yes":            {input: "yes\n", exp: true},
		"short no":       {input: "n\n", exp: false},
		"retry then yes": {input: "maybe\nY\n", exp: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewTerminal(newFakeConn(tt.input)).PromptYN("Sure? ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "answer", got, tt.exp)
		})
	}
}
