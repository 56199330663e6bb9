package linkstore

import "errors"

// ErrFormatMismatch is returned by Open when an existing link-store file's
// header format version does not match linknode.FormatVersion.
var ErrFormatMismatch = errors.New("linkstore: format version mismatch")
