package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avillagra/turnero/internal/domain/appointment"
	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepository struct {
	db *gorm.DB
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// activeStatuses are the states that occupy the physician's calendar.
var activeStatuses = []appointment.Status{appointment.StatusPending, appointment.StatusConfirmed}

// Schedule locks the physician row FOR UPDATE before the overlap check, so
// two concurrent bookings for the same physician serialize: the second one
// re-runs its check after the first commits and sees the new row. The check
// and the insert commit or roll back together.
func (r *AppointmentRepository) Schedule(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var phys physician.Physician
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&phys, "id = ?", a.PhysicianID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return physician.ErrPhysicianNotFound
			}
			return err
		}

		var count int64
		err = tx.Model(&appointment.Appointment{}).
			Where("physician_id = ?", a.PhysicianID).
			Where("status IN ?", activeStatuses).
			Where("scheduled_at < ? AND scheduled_at + make_interval(mins => duration_mins) > ?",
				a.EndsAt(), a.ScheduledAt).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return appointment.ErrScheduleConflict
		}

		return tx.Create(a).Error
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateStatus writes the new status only if the row still holds the state
// the transition was validated against. Concurrent transitions from the same
// state race on the predicate; the loser affects zero rows.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment, from appointment.Status) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]any{
			"status":      a.Status,
			"observation": a.Observation,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the appointment vanished or another transition won.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&appointment.Appointment{}).
			Where("id = ?", a.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return appointment.ErrAppointmentNotFound
		}
		return appointment.ErrInvalidStatusTransition
	}
	return nil
}

// HasOverlap uses half-open interval semantics: [a,b) and [c,d) overlap iff
// a < d and c < b. An appointment ending exactly at start does not count.
func (r *AppointmentRepository) HasOverlap(ctx context.Context, physicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("physician_id = ?", physicianID).
		Where("status IN ?", activeStatuses).
		Where("scheduled_at < ? AND scheduled_at + make_interval(mins => duration_mins) > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

const summarySelect = `a.id, a.scheduled_at, a.duration_mins, a.status, a.reason,
	a.patient_id, p.first_name AS patient_first_name, p.last_name AS patient_last_name,
	a.physician_id, m.first_name AS physician_first_name, m.last_name AS physician_last_name, m.specialty`

func (r *AppointmentRepository) ListByDate(ctx context.Context, day time.Time) ([]*appointment.Summary, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var rows []*appointment.Summary
	err := r.db.WithContext(ctx).
		Table("clinic.appointments AS a").
		Select(summarySelect).
		Joins("JOIN clinic.patients p ON p.id = a.patient_id").
		Joins("JOIN clinic.physicians m ON m.id = a.physician_id").
		Where("a.scheduled_at >= ? AND a.scheduled_at < ?", dayStart, dayEnd).
		Order("a.scheduled_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Summary, error) {
	var rows []*appointment.Summary
	err := r.db.WithContext(ctx).
		Table("clinic.appointments AS a").
		Select(summarySelect).
		Joins("JOIN clinic.patients p ON p.id = a.patient_id").
		Joins("JOIN clinic.physicians m ON m.id = a.physician_id").
		Where("a.patient_id = ?", patientID).
		Order("a.scheduled_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
