package domain

import "errors"

// Listing validation errors
var (
	ErrInvalidPrice = errors.New("price must be a positive integer")
	ErrInvalidRooms = errors.New("rooms must be a positive integer")
	ErrInvalidRole  = errors.New("invalid role")
)

// Not-found and permission errors
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotOwner        = errors.New("only the listing owner or an admin can modify this listing")
)
