package appointment

import (
	"time"

	"github.com/google/uuid"
)

// State transitions:
//
//	pending   → confirmed | cancelled
//	confirmed → cancelled | completed
//
// cancelled and completed are terminal. A consult must be confirmed before it
// can be completed; walk-in same-visit completion still goes through confirm.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether the status leaves the physician's calendar.
// Terminal appointments are excluded from overlap checks.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

const DefaultDurationMins = 30

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID   uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	PhysicianID uuid.UUID `gorm:"column:physician_id;type:uuid;not null;index"`

	ScheduledAt  time.Time `gorm:"column:scheduled_at;not null;index"`
	DurationMins int       `gorm:"column:duration_mins;not null;default:30"`
	Status       Status    `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	Reason      string `gorm:"column:reason;type:text"`
	Observation string `gorm:"column:observation;type:text"`
}

func (Appointment) TableName() string {
	return "clinic.appointments"
}

// EndsAt returns the exclusive end of the appointment interval
// [ScheduledAt, ScheduledAt+Duration).
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMins) * time.Minute)
}

// Overlaps reports whether two half-open intervals intersect. An appointment
// ending exactly when another begins does not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.ScheduledAt.Before(end) && start.Before(a.EndsAt())
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCancelled, StatusCompleted},
		StatusCancelled: {},
		StatusCompleted: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Transition moves the appointment to newStatus, recording an observation if
// one is provided. The state and observation change together or not at all.
func (a *Appointment) Transition(newStatus Status, observation string) error {
	if !newStatus.IsValid() {
		return ErrInvalidStatus
	}
	if !a.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	a.Status = newStatus
	if observation != "" {
		a.Observation = observation
	}
	return nil
}

type BookAppointmentCommand struct {
	PatientID    uuid.UUID
	PhysicianID  uuid.UUID
	ScheduledAt  time.Time
	DurationMins int
	Reason       string
}

// Summary is an appointment joined with the patient and physician names it
// references, as returned by the listing queries.
type Summary struct {
	ID                 uuid.UUID `gorm:"column:id"`
	ScheduledAt        time.Time `gorm:"column:scheduled_at"`
	DurationMins       int       `gorm:"column:duration_mins"`
	Status             Status    `gorm:"column:status"`
	Reason             string    `gorm:"column:reason"`
	PatientID          uuid.UUID `gorm:"column:patient_id"`
	PatientFirstName   string    `gorm:"column:patient_first_name"`
	PatientLastName    string    `gorm:"column:patient_last_name"`
	PhysicianID        uuid.UUID `gorm:"column:physician_id"`
	PhysicianFirstName string    `gorm:"column:physician_first_name"`
	PhysicianLastName  string    `gorm:"column:physician_last_name"`
	Specialty          string    `gorm:"column:specialty"`
}
