package effects

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type xmlEffects struct {
	XMLName xml.Name    `xml:"Effects"`
	Effects []xmlEffect `xml:"Effect"`
}

type xmlEffect struct {
	Type  string `xml:"Type,attr"`
	Inner string `xml:",innerxml"`
}

// Handler holds the effects of one owner. OnChange runs whenever the set changes.
type Handler struct {
	effects  []Effect
	cancels  map[Effect]func()
	OnChange func()
}

func NewHandler() *Handler {
	return &Handler{cancels: make(map[Effect]func())}
}

func (h *Handler) changed() {
	if h.OnChange != nil {
		h.OnChange()
	}
}

// Effects returns the attached effects in insertion order.
func (h *Handler) Effects() []Effect {
	return append([]Effect(nil), h.effects...)
}

func (h *Handler) Add(e Effect) {
	h.effects = append(h.effects, e)
	h.changed()
}

// AddFor attaches an effect that is removed when the scheduler fires.
func (h *Handler) AddFor(e Effect, s *Scheduler, ticks Duration) {
	h.Add(e)
	h.cancels[e] = s.Schedule(ticks, func() {
		delete(h.cancels, e)
		h.Remove(e)
	})
}

// Remove detaches an effect, cancelling any expiry.
func (h *Handler) Remove(e Effect) bool {
	for i, existing := range h.effects {
		if existing != e {
			continue
		}
		h.effects = append(h.effects[:i], h.effects[i+1:]...)
		if cancel, ok := h.cancels[e]; ok {
			cancel()
			delete(h.cancels, e)
		}
		h.changed()
		return true
	}
	return false
}

// RemoveAll detaches every effect and cancels every expiry.
func (h *Handler) RemoveAll() {
	for _, cancel := range h.cancels {
		cancel()
	}
	h.cancels = make(map[Effect]func())
	if len(h.effects) == 0 {
		return
	}
	h.effects = nil
	h.changed()
}

// TemperatureDelta sums every temperature affecting effect.
func (h *Handler) TemperatureDelta() float64 {
	total := 0.0
	for _, e := range h.effects {
		if t, ok := e.(TemperatureAffecting); ok {
			total += t.TemperatureDelta()
		}
	}
	return total
}

// AddedLight sums light producing effects. zoneOnly selects zone wide lights.
func (h *Handler) AddedLight(zoneOnly bool) float64 {
	total := 0.0
	for _, e := range h.effects {
		l, ok := e.(LightProducing)
		if !ok {
			continue
		}
		if zoneOnly && !l.AppliesToZone() {
			continue
		}
		total += l.AddedLight()
	}
	return total
}

// SaveXML renders the effects in insertion order.
func (h *Handler) SaveXML() (string, error) {
	doc := xmlEffects{}
	for _, e := range h.effects {
		doc.Effects = append(doc.Effects, xmlEffect{Type: e.Type(), Inner: e.InnerXML()})
	}
	b, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal effects: %w", err)
	}
	return string(b), nil
}

// LoadXML replaces the effects with those in doc. An empty doc clears them.
func (h *Handler) LoadXML(doc string) error {
	effects, err := ParseXML(doc)
	if err != nil {
		return err
	}
	h.effects = effects
	return nil
}

// ParseXML reads a persisted effects document.
func ParseXML(doc string) ([]Effect, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, nil
	}
	var parsed xmlEffects
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal effects: %w", err)
	}

	var effects []Effect
	for _, x := range parsed.Effects {
		loader, ok := loaders[x.Type]
		if !ok {
			effects = append(effects, &Raw{Kind: x.Type, Body: x.Inner})
			continue
		}
		e, err := loader(x.Inner)
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", x.Type, err)
		}
		effects = append(effects, e)
	}
	return effects, nil
}
