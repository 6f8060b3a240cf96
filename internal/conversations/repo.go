package conversations

import "context"

// Repo records conversation turns.
type Repo interface {
	Create(ctx context.Context, rec Record) error
}
