package submissiondb

import "errors"

// ErrSubmissionNotFound means no submission exists with the given ID.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionResolved means the submission was already approved or denied.
// Resolution is one-shot; a second button press lands here.
var ErrSubmissionResolved = errors.New("submission already resolved")
