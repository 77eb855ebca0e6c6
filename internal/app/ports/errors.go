package ports

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrTileOccupied = errors.New("tile occupied")
)
