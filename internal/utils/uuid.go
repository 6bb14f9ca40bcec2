// Package utils holds small helpers shared across the data layer.
package utils

import "github.com/google/uuid"

// NewUUID returns a time-ordered (v7) identifier so locally created rows
// cluster by creation time; falls back to random v4 when the system clock
// cannot produce one.
func NewUUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
