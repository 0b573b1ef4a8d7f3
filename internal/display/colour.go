package display

import "strings"

const (
	Reset   = "\x1b[0m"
	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Blue    = "\x1b[34m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"
	White   = "\x1b[37m"
	Grey    = "\x1b[1;30m"
	Bold    = "\x1b[1;37m"
)

// colourTags maps the #0 to #9 builder colour tags onto ANSI sequences.
var colourTags = strings.NewReplacer(
	"#0", Reset,
	"#1", Red,
	"#2", Green,
	"#3", Yellow,
	"#4", Blue,
	"#5", Magenta,
	"#6", Cyan,
	"#7", White,
	"#8", Grey,
	"#9", Bold,
)

var stripTags = strings.NewReplacer(
	"#0", "", "#1", "", "#2", "", "#3", "", "#4", "",
	"#5", "", "#6", "", "#7", "", "#8", "", "#9", "",
)

// Colourize substitutes colour tags with ANSI codes.
func Colourize(s string) string {
	return colourTags.Replace(s)
}

// StripColour removes colour tags for clients without ANSI support.
func StripColour(s string) string {
	return stripTags.Replace(s)
}

// Highlight wraps s in a colour followed by a reset.
func Highlight(s, colour string) string {
	return colour + s + Reset
}
