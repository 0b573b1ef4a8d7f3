package game

import "github.com/futuremud/futuremud/internal/weather"

// CapabilityProvider exposes behaviours implemented by components rather
// than by the value itself.
type CapabilityProvider interface {
	Capabilities() []any
}

// TryGetCapability returns v as T, or the first capability of v that is a T.
func TryGetCapability[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	if p, ok := v.(CapabilityProvider); ok {
		for _, c := range p.Capabilities() {
			if t, ok := c.(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// LightEmitter contributes light to the layer it is in.
type LightEmitter interface {
	Illumination() float64
}

// TemperatureAffecting changes the temperature of the cell it is in.
type TemperatureAffecting interface {
	TemperatureDelta() float64
}

// Buoyant items sink when denser than the liquid around them.
type Buoyant interface {
	Density() float64
	Anchored() bool
}

// Flier occupants do not fall out of air layers.
type Flier interface {
	CanFly() bool
}

// WindResister characters try to keep their footing in trees and on roofs.
type WindResister interface {
	AvoidFallDueToWind(d Difficulty) bool
}

// Combatant characters leave combat when moved out of a destroyed cell.
type Combatant interface {
	EndCombat()
}

// Mover characters have movement cancelled when moved out of a destroyed cell.
type Mover interface {
	CancelMovement()
}

// LiquidExposable occupants react to being submerged.
type LiquidExposable interface {
	ExposeToLiquid(f *Fluid)
}

// WeatherExposable occupants react to periodic weather exposure.
type WeatherExposable interface {
	ExposeToWeather(s weather.State)
}

// Previewer voyeurs may be looking at a package other than the current one.
type Previewer interface {
	PreviewPackage() (PackageKey, bool)
}

// Administrator voyeurs see diagnostic information.
type Administrator interface {
	IsAdministrator() bool
}

// Linguist voyeurs substitute their language into descriptions.
type Linguist interface {
	CurrentLanguage() string
	CurrentScript() string
}
