package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Schedule atomically re-checks availability and inserts the appointment.
	// The overlap check and the insert run in one transaction that serializes
	// writers on the physician's calendar; no interleaved Schedule call for
	// the same physician can observe the gap between check and insert.
	// Returns ErrScheduleConflict without writing when the slot is taken.
	Schedule(ctx context.Context, a *Appointment) error

	// GetByID retrieves an appointment by primary key. Returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus persists the status and observation of appointment as a
	// compare-and-swap keyed on the state the transition was validated
	// against. A writer that lost the race to another transition gets
	// ErrInvalidStatusTransition; terminal states can never be overwritten.
	UpdateStatus(ctx context.Context, a *Appointment, from Status) error

	// HasOverlap checks whether the physician already has a pending or
	// confirmed appointment intersecting [start, end). Pure read, no locks.
	HasOverlap(ctx context.Context, physicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// ListByDate returns appointments on the given civil date joined with
	// patient and physician summaries, ascending by start time.
	ListByDate(ctx context.Context, day time.Time) ([]*Summary, error)

	// ListByPatient returns the patient's appointments joined with physician
	// summaries, descending by start time.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Summary, error)
}
