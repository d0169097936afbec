// Package domain contains the moto-manager entities and value objects.
package domain

import "time"

// Motocycle is a fleet motorcycle available for rental.
type Motocycle struct {
	ID         int64
	Identifier string
	Year       int
	Model      string
	Plate      string
	UserID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
