package tuning

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// Tuning holds the physics and perception constants of the world.
type Tuning struct {
	MinimumTerrestrialLux float64 `yaml:"minimum_terrestrial_lux"`
	DefaultTemperature    float64 `yaml:"default_temperature"`

	// TreeFallWeight is a template evaluated with .Wind (0-8) giving the
	// heaviest item in kilograms that stays put in trees and on rooftops.
	TreeFallWeight string `yaml:"tree_fall_weight"`
	// WindFallDifficulty is added to the wind level to give the fall check difficulty.
	WindFallDifficulty int `yaml:"wind_fall_difficulty"`

	FallEmote        string `yaml:"fall_emote"`
	FallThroughEmote string `yaml:"fall_through_emote"`
	WindFallEmote    string `yaml:"wind_fall_emote"`
	SinkEmote        string `yaml:"sink_emote"`
	SettleEmote      string `yaml:"settle_emote"`

	// LightDescriptors are ascending lux thresholds with their descriptions.
	LightDescriptors []LightDescriptor `yaml:"light_descriptors"`

	treeFall *template.Template
}

// LightDescriptor names light levels of at least Lux.
type LightDescriptor struct {
	Name string  `yaml:"name"`
	Lux  float64 `yaml:"lux"`
}

// Default returns the values used when no tuning file is configured.
func Default() *Tuning {
	t := &Tuning{
		MinimumTerrestrialLux: 0.00005,
		DefaultTemperature:    15,
		TreeFallWeight:        "{{ max 0 (sub 200 (mul .Wind 25)) }}",
		WindFallDifficulty:    0,
		FallEmote:             "{{ .Name }} fall{{ if not .Plural }}s{{ end }} to the ground.",
		FallThroughEmote:      "{{ .Name }} fall{{ if not .Plural }}s{{ end }} through the opening below.",
		WindFallEmote:         "{{ .Name }} {{ if .Plural }}are{{ else }}is{{ end }} blown down by the wind.",
		SinkEmote:             "{{ .Name }} sink{{ if not .Plural }}s{{ end }} deeper into the water.",
		SettleEmote:           "{{ .Name }} settle{{ if not .Plural }}s{{ end }} on the bottom.",
		LightDescriptors: []LightDescriptor{
			{Name: "pitchblack", Lux: 0},
			{Name: "dark", Lux: 0.01},
			{Name: "dim", Lux: 1},
			{Name: "lit", Lux: 50},
			{Name: "bright", Lux: 1000},
			{Name: "dazzling", Lux: 50000},
		},
	}
	_ = t.compile()
	return t
}

// Load reads a YAML tuning file. Missing values keep their defaults.
func Load(path string) (*Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) compile() error {
	tmpl, err := template.New("tree_fall_weight").Funcs(sprig.TxtFuncMap()).Parse(t.TreeFallWeight)
	if err != nil {
		return fmt.Errorf("parsing tree_fall_weight: %w", err)
	}
	t.treeFall = tmpl
	return nil
}

// TreeFallLimit is the heaviest item that survives the given wind level.
func (t *Tuning) TreeFallLimit(wind int) (float64, error) {
	if t.treeFall == nil {
		if err := t.compile(); err != nil {
			return 0, err
		}
	}
	var buf bytes.Buffer
	if err := t.treeFall.Execute(&buf, map[string]any{"Wind": wind}); err != nil {
		return 0, fmt.Errorf("executing tree_fall_weight: %w", err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(buf.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("tree_fall_weight result %q: %w", buf.String(), err)
	}
	return v, nil
}

// DescribeLight gives the descriptor of the brightest threshold lux reaches.
func (t *Tuning) DescribeLight(lux float64) string {
	name := ""
	for _, d := range t.LightDescriptors {
		if lux >= d.Lux {
			name = d.Name
		}
	}
	return name
}

// LightThreshold returns the lux of a named descriptor.
func (t *Tuning) LightThreshold(name string) (float64, bool) {
	for _, d := range t.LightDescriptors {
		if d.Name == name {
			return d.Lux, true
		}
	}
	return 0, false
}

// Emote renders one of the emote templates for a subject.
func (t *Tuning) Emote(tmpl, name string, plural bool) (string, error) {
	parsed, err := template.New("emote").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing emote: %w", err)
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, map[string]any{"Name": name, "Plural": plural}); err != nil {
		return "", fmt.Errorf("executing emote: %w", err)
	}
	return buf.String(), nil
}
