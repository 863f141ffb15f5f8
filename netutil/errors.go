package netutil

import "errors"

// ErrConnectTimeout is returned when a client connect attempt does not reach an established
// state before its deadline (the CLI's -w flag, spec.md 6/5).
var ErrConnectTimeout = errors.New("netutil: connect timed out")
