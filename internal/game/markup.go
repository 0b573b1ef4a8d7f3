package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/tuning"
	"github.com/futuremud/futuremud/internal/weather"
)

const environmentToken = "environment{"

// markupSegment is literal text or one environment block.
type markupSegment struct {
	text     string
	branches []markupBranch
	fallback string
	block    bool
}

type markupBranch struct {
	conds []markupCond
	text  string
}

type markupCond struct {
	prefix byte
	name   string
}

// envContext is what environment qualifiers are tested against.
type envContext struct {
	timeOfDay  TimeOfDay
	hasTime    bool
	season     celestial.Season
	hasSeason  bool
	weather    weather.State
	hasWeather bool
	lux        float64
	tuning     *tuning.Tuning
}

// MarkupCache holds parsed descriptions keyed by their source text.
type MarkupCache struct {
	cache *ristretto.Cache[string, []markupSegment]
}

func NewMarkupCache(maxEntries int64) (*MarkupCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []markupSegment]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating markup cache: %w", err)
	}
	return &MarkupCache{cache: cache}, nil
}

func (m *MarkupCache) parse(src string) []markupSegment {
	if m == nil {
		return parseMarkup(src)
	}
	if segs, ok := m.cache.Get(src); ok {
		return segs
	}
	segs := parseMarkup(src)
	m.cache.Set(src, segs, 1)
	return segs
}

// Close releases the cache's goroutines.
func (m *MarkupCache) Close() {
	if m != nil {
		m.cache.Close()
	}
}

func parseMarkup(src string) []markupSegment {
	var segs []markupSegment
	rest := src
	for {
		i := indexFold(rest, environmentToken)
		if i < 0 {
			break
		}
		block, consumed, ok := parseEnvironmentBlock(rest[i+len(environmentToken)-1:])
		if !ok {
			slog.Debug("unterminated environment block", "text", rest[i:])
			break
		}
		if i > 0 {
			segs = append(segs, markupSegment{text: rest[:i]})
		}
		segs = append(segs, block)
		rest = rest[i+len(environmentToken)-1+consumed:]
	}
	if rest != "" {
		segs = append(segs, markupSegment{text: rest})
	}
	return segs
}

// indexFold finds an ASCII token in s ignoring case. Offsets index s itself
// so non-ASCII or invalid UTF-8 text cannot shift them.
func indexFold(s, token string) int {
	for i := 0; i+len(token) <= len(s); i++ {
		match := true
		for j := 0; j < len(token); j++ {
			if lowerASCII(s[i+j]) != token[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// parseEnvironmentBlock reads consecutive {..} groups from s.
func parseEnvironmentBlock(s string) (markupSegment, int, bool) {
	seg := markupSegment{block: true}
	pos := 0
	for pos < len(s) && s[pos] == '{' {
		end := strings.IndexByte(s[pos:], '}')
		if end < 0 {
			return seg, 0, false
		}
		body := s[pos+1 : pos+end]
		pos += end + 1
		q, text, hasQualifier := strings.Cut(body, "=")
		if !hasQualifier {
			seg.fallback = body
			break
		}
		seg.branches = append(seg.branches, markupBranch{conds: parseConds(q), text: text})
	}
	if pos == 0 {
		return seg, 0, false
	}
	return seg, pos, true
}

func parseConds(q string) []markupCond {
	var conds []markupCond
	for _, part := range strings.Split(q, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		c := markupCond{name: part}
		switch part[0] {
		case '>', '<', '!', '*':
			c.prefix = part[0]
			c.name = strings.TrimSpace(part[1:])
		}
		conds = append(conds, c)
	}
	return conds
}

func renderMarkup(segs []markupSegment, env envContext) string {
	var b strings.Builder
	for _, s := range segs {
		if !s.block {
			b.WriteString(s.text)
			continue
		}
		b.WriteString(s.choose(env))
	}
	return b.String()
}

func (s markupSegment) choose(env envContext) string {
	for _, br := range s.branches {
		if br.matches(env) {
			return br.text
		}
	}
	return s.fallback
}

func (b markupBranch) matches(env envContext) bool {
	for _, c := range b.conds {
		if !c.matches(env) {
			return false
		}
	}
	return true
}

func (c markupCond) matches(env envContext) bool {
	if tod, ok := ParseTimeOfDay(c.name); ok || c.name == "day" {
		if !env.hasTime {
			return false
		}
		hit := env.timeOfDay == tod
		if c.name == "day" {
			hit = env.timeOfDay == Morning || env.timeOfDay == Afternoon
		}
		return hit != (c.prefix == '!')
	}
	if season, ok := celestial.ParseSeason(c.name); ok {
		if !env.hasSeason {
			return false
		}
		return (env.season == season) != (c.prefix == '!')
	}
	if p, err := weather.ParsePrecipitation(c.name); err == nil {
		if !env.hasWeather {
			return false
		}
		// Ordering prefixes compare intensity. Bare and negated names mean
		// exactly that kind of weather, so rain never matches snow.
		switch c.prefix {
		case '>', '<', '*':
			return compareLevels(c.prefix, env.weather.Precipitation.Intensity(), p.Intensity(), env.weather.HighestRecentPrecipitation.Intensity())
		}
		return (env.weather.Precipitation == p) != (c.prefix == '!')
	}
	if env.tuning != nil {
		if threshold, ok := env.tuning.LightThreshold(c.name); ok {
			cur := lightIndex(env.tuning, env.lux)
			want := lightIndex(env.tuning, threshold)
			return compareLevels(c.prefix, cur, want, cur)
		}
	}
	slog.Debug("unknown environment qualifier", "qualifier", c.name)
	return false
}

// compareLevels applies a qualifier prefix to ordered levels. recent is the
// highest level reached lately, used by the * prefix.
func compareLevels(prefix byte, cur, want, recent int) bool {
	switch prefix {
	case '>':
		return cur > want
	case '<':
		return cur < want
	case '!':
		return cur != want
	case '*':
		return recent >= want
	}
	return cur == want
}

func lightIndex(t *tuning.Tuning, lux float64) int {
	idx := 0
	for i, d := range t.LightDescriptors {
		if lux >= d.Lux {
			idx = i
		}
	}
	return idx
}
