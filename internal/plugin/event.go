// Package plugin routes chat events from the host bot framework to the rank and
// gacha log commands.
package plugin

import "context"

// Event is one inbound chat message. File fields are set for uploads.
type Event struct {
	BotID   string `json:"bot_id"`
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
	Text    string `json:"text"`

	File     []byte `json:"file,omitempty"`
	FileName string `json:"file_name,omitempty"`

	// set by the router
	Command string            `json:"-"`
	Args    string            `json:"-"`
	Match   map[string]string `json:"-"`
}

// Message is one reply. Exactly one of Text, Image or File is normally set.
type Message struct {
	Text     string `json:"text,omitempty"`
	Image    []byte `json:"image,omitempty"`
	File     []byte `json:"file,omitempty"`
	FileName string `json:"file_name,omitempty"`
	At       bool   `json:"at,omitempty"`
}

// Bot sends replies back through the host framework.
type Bot interface {
	Send(ctx context.Context, msg Message) error
}

// Recorder collects replies in memory; the HTTP adapter returns them in the response.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.Messages = append(r.Messages, msg)
	return nil
}
