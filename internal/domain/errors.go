package domain

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrBatchInProgress = errors.New("processing is already in progress")
	ErrNothingToCheck  = errors.New("please enter phone numbers to check")
	ErrNothingToExport = errors.New("nothing to export")
)
