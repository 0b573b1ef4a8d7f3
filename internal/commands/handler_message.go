package commands

import (
	"context"
	"fmt"
)

// MessageHandlerFactory creates handlers that send templated messages.
// Config:
//   - sender_message (optional): confirmation shown to the actor
//   - room_message (optional): shown to everyone else in the actor's cell
//   - recipient_channel (optional): subject the recipient message is published on
//   - recipient_message (required if recipient_channel set): message published on the channel
type MessageHandlerFactory struct {
	pub Publisher
}

// NewMessageHandlerFactory creates a new MessageHandlerFactory with a publisher.
func NewMessageHandlerFactory(pub Publisher) *MessageHandlerFactory {
	return &MessageHandlerFactory{pub: pub}
}

func (f *MessageHandlerFactory) Spec() *HandlerSpec {
	// Conditional requirements are handled by ValidateConfig below.
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "sender_message", Required: false},
			{Name: "room_message", Required: false},
			{Name: "recipient_channel", Required: false},
			{Name: "recipient_message", Required: false},
		},
	}
}

func (f *MessageHandlerFactory) ValidateConfig(config map[string]any) error {
	recipientChannel, _ := config["recipient_channel"].(string)
	recipientMessage, _ := config["recipient_message"].(string)
	if recipientChannel != "" && recipientMessage == "" {
		return fmt.Errorf("recipient_message is required when recipient_channel is set")
	}

	senderMessage, _ := config["sender_message"].(string)
	roomMessage, _ := config["room_message"].(string)
	if senderMessage == "" && roomMessage == "" && recipientChannel == "" {
		return fmt.Errorf("at least one of sender_message, room_message or recipient_channel is required")
	}

	return nil
}

func (f *MessageHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		// Config values are already expanded by the framework
		if msg := cmdCtx.Config["sender_message"]; msg != "" {
			cmdCtx.Actor.Send(msg)
		}

		if msg := cmdCtx.Config["room_message"]; msg != "" {
			cell, err := actorCell(cmdCtx)
			if err != nil {
				return err
			}
			for _, ch := range cell.Characters() {
				if ch.ID() != cmdCtx.Actor.ID() {
					ch.Send(msg)
				}
			}
		}

		if channel := cmdCtx.Config["recipient_channel"]; channel != "" {
			if f.pub == nil {
				return fmt.Errorf("no publisher for channel %q", channel)
			}
			if err := f.pub.Publish(channel, []byte(cmdCtx.Config["recipient_message"])); err != nil {
				return fmt.Errorf("publishing to %q: %w", channel, err)
			}
		}

		return nil
	}, nil
}
