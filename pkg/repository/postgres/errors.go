package postgres

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when a row does not exist
var ErrNotFound = goerr.New("not found")
