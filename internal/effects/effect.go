package effects

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Effect is a status attached to a perceivable such as a cell.
type Effect interface {
	Type() string
	// InnerXML is the persisted body of the effect element.
	InnerXML() string
}

// TemperatureAffecting effects change the temperature felt at their owner.
type TemperatureAffecting interface {
	TemperatureDelta() float64
}

// LightProducing effects add light at their owner.
type LightProducing interface {
	AddedLight() float64
	// AppliesToZone is true for light that reaches every room of a zone.
	AppliesToZone() bool
}

// Loader builds an effect from its persisted body.
type Loader func(inner string) (Effect, error)

var loaders = map[string]Loader{
	TemperatureChangeType: loadTemperatureChange,
	AreaLightType:         loadAreaLight,
}

// RegisterLoader adds a loader for an effect type.
func RegisterLoader(typ string, l Loader) {
	loaders[typ] = l
}

const (
	TemperatureChangeType = "TemperatureChange"
	AreaLightType         = "AreaLight"
)

// TemperatureChange shifts the temperature of its owner.
type TemperatureChange struct {
	Delta float64
}

func (e *TemperatureChange) Type() string              { return TemperatureChangeType }
func (e *TemperatureChange) TemperatureDelta() float64 { return e.Delta }

func (e *TemperatureChange) InnerXML() string {
	return "<Delta>" + strconv.FormatFloat(e.Delta, 'f', -1, 64) + "</Delta>"
}

func loadTemperatureChange(inner string) (Effect, error) {
	var body struct {
		Delta float64 `xml:"Delta"`
	}
	if err := unmarshalInner(inner, &body); err != nil {
		return nil, err
	}
	return &TemperatureChange{Delta: body.Delta}, nil
}

// AreaLight is a light source such as a magical glow.
type AreaLight struct {
	Lux  float64
	Zone bool
}

func (e *AreaLight) Type() string        { return AreaLightType }
func (e *AreaLight) AddedLight() float64 { return e.Lux }
func (e *AreaLight) AppliesToZone() bool { return e.Zone }

func (e *AreaLight) InnerXML() string {
	return fmt.Sprintf("<Lux>%s</Lux><Zone>%t</Zone>", strconv.FormatFloat(e.Lux, 'f', -1, 64), e.Zone)
}

func loadAreaLight(inner string) (Effect, error) {
	var body struct {
		Lux  float64 `xml:"Lux"`
		Zone bool    `xml:"Zone"`
	}
	if err := unmarshalInner(inner, &body); err != nil {
		return nil, err
	}
	return &AreaLight{Lux: body.Lux, Zone: body.Zone}, nil
}

// Raw holds an effect of a type with no registered loader so it survives a save.
type Raw struct {
	Kind string
	Body string
}

func (e *Raw) Type() string     { return e.Kind }
func (e *Raw) InnerXML() string { return e.Body }

func unmarshalInner(inner string, v any) error {
	if err := xml.Unmarshal([]byte("<Effect>"+inner+"</Effect>"), v); err != nil {
		return fmt.Errorf("unmarshal effect body: %w", err)
	}
	return nil
}
