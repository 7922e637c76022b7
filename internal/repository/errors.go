package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")

	// ErrInvitationNotFound is returned when an invitation is not found
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrMemberNotFound is returned when a board membership is not found
	ErrMemberNotFound = errors.New("board member not found")

	// ErrPositionOutOfRange is returned when a move targets an index outside
	// the destination container's valid insertion range
	ErrPositionOutOfRange = errors.New("position out of range")
)
