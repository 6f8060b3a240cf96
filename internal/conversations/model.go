package conversations

import "time"

// Record is one completed question/answer turn.
type Record struct {
	ID         string
	UserID     string
	UserInput  string
	AIResponse string
	CreatedAt  time.Time
}

// Reply is the outcome of Ask.
type Reply struct {
	Answer         string
	Record         Record
	ContextVersion uint64
	ContextBytes   int
}
