package vtext

import "errors"

// ErrNoFace is returned by New when no font source is given.
var ErrNoFace = errors.New("vtext: no font source")
