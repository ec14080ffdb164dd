package models

import "time"

// Deletable is the shared soft-delete capability. Entities embedding it are
// removed by stamping deleted_at and restored by clearing it; the underlying
// record and its own status survive untouched.
type Deletable struct {
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

// IsDeleted reports whether the record is currently soft-deleted.
func (d Deletable) IsDeleted() bool {
	return d.DeletedAt != nil
}
