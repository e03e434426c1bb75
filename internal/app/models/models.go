// Package models holds the domain types shared by repositories, services
// and controllers.
package models

import "github.com/google/uuid"

// IsNil reports whether id is the zero uuid.
func IsNil(id uuid.UUID) bool {
	return id == uuid.Nil
}
