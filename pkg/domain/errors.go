package domain

import "errors"

// ErrUnknownCommand is reported by a host that has no handler for a command class.
var ErrUnknownCommand = errors.New("unknown command")

// ErrNoScheme is reported by a host asked about a scheme before one was created.
var ErrNoScheme = errors.New("no scheme has been created")
