package models

import "time"

// ChatSender identifies who authored a chat message.
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderAI   ChatSender = "ai"
)

// Coach is the profile of a selected AI coach.
type Coach struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Style  string `json:"style"` // e.g. "Conservative Coach", "Balanced Coach"
}

// ChatMessage is one entry in the coach conversation transcript.
type ChatMessage struct {
	ID        string     `json:"id"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Pending   bool       `json:"pending,omitempty"`
}
