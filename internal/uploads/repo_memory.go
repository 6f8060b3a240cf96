package uploads

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	files []UploadedFile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends an upload record.
func (r *MemoryRepo) Create(ctx context.Context, f UploadedFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
	return nil
}

// All returns a copy of every stored record in insertion order.
func (r *MemoryRepo) All() []UploadedFile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]UploadedFile, len(r.files))
	copy(out, r.files)
	return out
}
