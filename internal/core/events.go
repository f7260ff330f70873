package core

import "time"

// Change operations reported by the store.
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReset   = "reset"
	OpRestore = "restore"
)

// ChangeEvent describes one committed store mutation.
type ChangeEvent struct {
	Operation  string    `json:"operation"`
	Collection string    `json:"collection"`
	EntityID   string    `json:"entityId,omitempty"`
	At         time.Time `json:"at"`
}
