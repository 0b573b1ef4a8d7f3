package game

import "strings"

// StringStack tokenises builder input. Double quoted runs are one token.
type StringStack struct {
	tokens []string
	pos    int
}

func NewStringStack(s string) *StringStack {
	return &StringStack{tokens: tokenize(s)}
}

func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	quoted := false
	inToken := false
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inToken = true
		case !quoted && (r == ' ' || r == '\t'):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// IsFinished is true when every token has been popped.
func (s *StringStack) IsFinished() bool {
	return s.pos >= len(s.tokens)
}

// Peek returns the next token without consuming it.
func (s *StringStack) Peek() string {
	if s.IsFinished() {
		return ""
	}
	return s.tokens[s.pos]
}

// Pop consumes the next token, returning "" at the end.
func (s *StringStack) Pop() string {
	if s.IsFinished() {
		return ""
	}
	t := s.tokens[s.pos]
	s.pos++
	return t
}

// PopLower consumes the next token in lower case.
func (s *StringStack) PopLower() string {
	return strings.ToLower(s.Pop())
}

// RemainingArgument consumes and joins every remaining token.
func (s *StringStack) RemainingArgument() string {
	if s.IsFinished() {
		return ""
	}
	rest := strings.Join(s.tokens[s.pos:], " ")
	s.pos = len(s.tokens)
	return rest
}

// Remainder consumes the remaining tokens and rejoins them, quoting any
// token with a space so the result tokenises the same way again.
func (s *StringStack) Remainder() string {
	parts := make([]string, 0, len(s.tokens)-min(s.pos, len(s.tokens)))
	for !s.IsFinished() {
		t := s.Pop()
		if strings.ContainsAny(t, " \t") || t == "" {
			t = `"` + t + `"`
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}
