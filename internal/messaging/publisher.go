package messaging

import (
	"fmt"
)

// CharacterSubject is the subject a character's session listens on.
func CharacterSubject(charID int64) string {
	return fmt.Sprintf("character-%d", charID)
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher delivers text to individual character subjects.
type NatsPublisher struct {
	server publisher
}

func NewNatsPublisher(server publisher) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToCharacter(charID int64, data []byte) error {
	return p.server.Publish(CharacterSubject(charID), data)
}

// Publish sends data to an arbitrary subject.
func (p *NatsPublisher) Publish(subject string, data []byte) error {
	return p.server.Publish(subject, data)
}
