// Package types defines the Card entity, its status columns, the field
// validation rules for the creation and edit paths, the store Config, and
// the standard error values shared by the board, persistence and CLI layers.
package types
