package entity

import "time"

// Category agrupa productos del catálogo (nombre único).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
