package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned when a status value is not in the
	// configured option list
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyCart is returned when a quotation is requested from an empty cart
	ErrEmptyCart = errors.New("cart is empty")

	// ErrIDGeneration is returned when a unique id could not be produced
	ErrIDGeneration = errors.New("could not generate a unique id")
)
