package dca

import "errors"

var (
	// ErrDataUnavailable is returned when the data source has no usable data
	// for the requested symbols and range.
	ErrDataUnavailable = errors.New("no data for range/symbols")

	// ErrInvalidPrice is returned when a buy or a dividend reinvestment meets
	// a missing, zero or negative close price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidInput is returned for malformed user input, before any data is fetched.
	ErrInvalidInput = errors.New("invalid input")
)
