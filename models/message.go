package models

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one turn of a course-help conversation.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}
