package pipeline

import "errors"

// ErrInvalidArgument is returned for unparseable flags or option values.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidFileExtension is returned when a positional file lacks the
// suffix its stage requires.
var ErrInvalidFileExtension = errors.New("invalid file extension")

// ErrCommandFailed is returned when a routing tool exits with a non-zero status.
var ErrCommandFailed = errors.New("command failed")
