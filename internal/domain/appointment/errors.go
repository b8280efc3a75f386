package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrScheduleConflict        = errors.New("physician already has an appointment in that time slot")
	ErrInvalidStatus           = errors.New("unrecognized appointment status")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrInvalidDuration         = errors.New("appointment duration must be a positive number of minutes")
	ErrInvalidScheduledAt      = errors.New("scheduled time is not a valid timestamp")
)
