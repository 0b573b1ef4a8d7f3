package game

import (
	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/weather"
)

// Occupant is anything that sits on a layer of a cell.
type Occupant interface {
	ID() int64
	Name() string
	Layer() RoomLayer
	SetLayer(RoomLayer)
	Location() *Cell
	SetLocation(*Cell)
}

// Character is an occupant that can be told things.
type Character interface {
	Occupant
	Send(msg string)
}

// Item is an occupant that can be picked up, dropped and blown about.
type Item interface {
	Occupant
	Weight() float64
}

// WeatherController supplies the weather for every location under it.
type WeatherController interface {
	ID() int64
	Name() string
	CurrentWeather() weather.State
	Subscribe(fn func(weather.Event)) func()
}

// Celestial is a body lighting a shard.
type Celestial interface {
	ID() int64
	Name() string
	ElevationAngle(geo celestial.Geography) float64
	IsAscending(geo celestial.Geography) bool
	CurrentIllumination(geo celestial.Geography) float64
	Subscribe(fn func()) func()
}

// Heartbeat schedules periodic callbacks.
type Heartbeat interface {
	Subscribe(i heartbeat.Interval, fn func()) func()
}

// Publisher delivers text to characters that are not in this process.
type Publisher interface {
	PublishToCharacter(charID int64, data []byte) error
}

// ShopLookup names the shop in a cell, if any.
type ShopLookup interface {
	ShopName(cellID int64) (string, bool)
}
