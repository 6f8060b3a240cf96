package uploads

import "errors"

// ErrDatastore marks a failure to record the upload audit row.
var ErrDatastore = errors.New("upload datastore failure")
