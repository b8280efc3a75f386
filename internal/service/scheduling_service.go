package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avillagra/turnero/internal/domain/appointment"
	"github.com/avillagra/turnero/internal/domain/patient"
	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/avillagra/turnero/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchedulingService owns the appointment lifecycle: it is the only component
// that creates appointments or moves them between states. Availability checks
// are plain reads; booking delegates the check-then-insert to the repository,
// which runs both inside one physician-serialized transaction.
type SchedulingService struct {
	repo          appointment.Repository
	patientRepo   patient.Repository
	physicianRepo physician.Repository
	auditSvc      *AuditService
	collector     *metrics.Collector
	log           *zap.Logger
}

func NewSchedulingService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	physicianRepo physician.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *SchedulingService {
	return &SchedulingService{
		repo:          repo,
		patientRepo:   patientRepo,
		physicianRepo: physicianRepo,
		auditSvc:      auditSvc,
		collector:     collector,
		log:           log,
	}
}

// CheckAvailability reports whether the physician is free for the half-open
// interval [startAt, startAt+duration). Back-to-back appointments do not
// conflict. No side effects.
func (s *SchedulingService) CheckAvailability(ctx context.Context, physicianID uuid.UUID, startAt time.Time, durationMins int) (bool, error) {
	if durationMins <= 0 {
		return false, appointment.ErrInvalidDuration
	}
	if startAt.IsZero() {
		return false, appointment.ErrInvalidScheduledAt
	}

	if _, err := s.physicianRepo.GetByID(ctx, physicianID); err != nil {
		return false, err
	}

	end := startAt.Add(time.Duration(durationMins) * time.Minute)
	overlap, err := s.repo.HasOverlap(ctx, physicianID, startAt, end, nil)
	if err != nil {
		return false, fmt.Errorf("checking overlap: %w", err)
	}
	return !overlap, nil
}

func (s *SchedulingService) BookAppointment(ctx context.Context, cmd *appointment.BookAppointmentCommand, ip string) (*appointment.Appointment, error) {
	if cmd.DurationMins <= 0 {
		return nil, appointment.ErrInvalidDuration
	}
	if cmd.ScheduledAt.IsZero() {
		return nil, appointment.ErrInvalidScheduledAt
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.physicianRepo.GetByID(ctx, cmd.PhysicianID); err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID:    cmd.PatientID,
		PhysicianID:  cmd.PhysicianID,
		ScheduledAt:  cmd.ScheduledAt,
		DurationMins: cmd.DurationMins,
		Status:       appointment.StatusPending,
		Reason:       cmd.Reason,
	}

	// Availability is re-checked inside the repository transaction; a prior
	// CheckAvailability result may be stale by the time we get here.
	if err := s.repo.Schedule(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrScheduleConflict) {
			s.collector.BookingConflicts.Inc()
			return nil, err
		}
		s.log.Error("failed to schedule appointment", zap.Error(err))
		return nil, err
	}

	s.collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusPending)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("physician_id", cmd.PhysicianID.String()),
		zap.Time("scheduled_at", cmd.ScheduledAt),
		zap.Int("duration_mins", cmd.DurationMins),
	)

	return a, nil
}

// TransitionAppointment moves an appointment to newStatus, storing the
// observation alongside. Terminal states reject every further transition.
func (s *SchedulingService) TransitionAppointment(ctx context.Context, id uuid.UUID, newStatus appointment.Status, observation string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := a.Status
	if err := a.Transition(newStatus, observation); err != nil {
		return nil, err
	}

	// The write is conditioned on the status we validated against. If a
	// concurrent transition got there first, the store reports it as an
	// invalid transition and nothing is overwritten.
	if err := s.repo.UpdateStatus(ctx, a, from); err != nil {
		if errors.Is(err, appointment.ErrInvalidStatusTransition) || errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil, err
		}
		s.log.Error("failed to update appointment status", zap.Error(err))
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.collector.AppointmentsTotal.WithLabelValues(string(newStatus)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "transition",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"from":%q,"to":%q}`, from, newStatus),
	})

	return a, nil
}

func (s *SchedulingService) ConfirmAppointment(ctx context.Context, id uuid.UUID, observation, ip string) (*appointment.Appointment, error) {
	return s.TransitionAppointment(ctx, id, appointment.StatusConfirmed, observation, ip)
}

func (s *SchedulingService) CancelAppointment(ctx context.Context, id uuid.UUID, observation, ip string) (*appointment.Appointment, error) {
	return s.TransitionAppointment(ctx, id, appointment.StatusCancelled, observation, ip)
}

func (s *SchedulingService) CompleteAppointment(ctx context.Context, id uuid.UUID, observation, ip string) (*appointment.Appointment, error) {
	return s.TransitionAppointment(ctx, id, appointment.StatusCompleted, observation, ip)
}

func (s *SchedulingService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByDate returns the day's appointments with patient and physician
// summaries, ascending by start time.
func (s *SchedulingService) ListByDate(ctx context.Context, day time.Time) ([]*appointment.Summary, error) {
	return s.repo.ListByDate(ctx, day)
}

// ListByPatient returns the patient's appointment history, most recent first.
func (s *SchedulingService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Summary, error) {
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}
