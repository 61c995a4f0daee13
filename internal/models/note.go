// Package models defines the domain types for Dagaz.
package models

import "time"

// Note is a persisted record. ID and CreatedAt are assigned by the store
// on insert and never change afterwards.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
