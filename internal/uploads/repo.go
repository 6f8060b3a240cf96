package uploads

import "context"

// Repo records uploaded files.
type Repo interface {
	Create(ctx context.Context, f UploadedFile) error
}
