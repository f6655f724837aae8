package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrAccessDenied indicates the user is not on the report allow-list.
var ErrAccessDenied = errors.New("access denied")

// ErrSourceRead indicates the source spreadsheet could not be read.
var ErrSourceRead = errors.New("source read error")

// ErrDelivery indicates a rendered document could not be sent.
var ErrDelivery = errors.New("delivery error")
