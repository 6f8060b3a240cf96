package conversations

import "errors"

// ErrDatastore marks a failure to record the conversation audit row.
var ErrDatastore = errors.New("conversation datastore failure")
