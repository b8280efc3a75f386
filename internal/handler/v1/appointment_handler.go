package v1

import (
	"net/http"
	"time"

	"github.com/avillagra/turnero/internal/domain/appointment"
	"github.com/avillagra/turnero/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	schedulingSvc *service.SchedulingService
}

func NewAppointmentHandler(schedulingSvc *service.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{schedulingSvc: schedulingSvc}
}

type bookAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	PhysicianID  uuid.UUID `json:"physician_id" binding:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	DurationMins *int      `json:"duration_mins"`
	Reason       string    `json:"reason"`
}

type appointmentResponse struct {
	ID           uuid.UUID          `json:"id"`
	PatientID    uuid.UUID          `json:"patient_id"`
	PhysicianID  uuid.UUID          `json:"physician_id"`
	ScheduledAt  time.Time          `json:"scheduled_at"`
	DurationMins int                `json:"duration_mins"`
	Status       appointment.Status `json:"status"`
	Reason       string             `json:"reason,omitempty"`
	Observation  string             `json:"observation,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		PhysicianID:  a.PhysicianID,
		ScheduledAt:  a.ScheduledAt,
		DurationMins: a.DurationMins,
		Status:       a.Status,
		Reason:       a.Reason,
		Observation:  a.Observation,
	}
}

type summaryResponse struct {
	ID            uuid.UUID          `json:"id"`
	ScheduledAt   time.Time          `json:"scheduled_at"`
	DurationMins  int                `json:"duration_mins"`
	Status        appointment.Status `json:"status"`
	Reason        string             `json:"reason,omitempty"`
	PatientID     uuid.UUID          `json:"patient_id"`
	PatientName   string             `json:"patient_name"`
	PhysicianID   uuid.UUID          `json:"physician_id"`
	PhysicianName string             `json:"physician_name"`
	Specialty     string             `json:"specialty"`
}

func toSummaryResponses(summaries []*appointment.Summary) []summaryResponse {
	out := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryResponse{
			ID:            s.ID,
			ScheduledAt:   s.ScheduledAt,
			DurationMins:  s.DurationMins,
			Status:        s.Status,
			Reason:        s.Reason,
			PatientID:     s.PatientID,
			PatientName:   s.PatientFirstName + " " + s.PatientLastName,
			PhysicianID:   s.PhysicianID,
			PhysicianName: s.PhysicianFirstName + " " + s.PhysicianLastName,
			Specialty:     s.Specialty,
		})
	}
	return out
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	durationMins := appointment.DefaultDurationMins
	if req.DurationMins != nil {
		durationMins = *req.DurationMins
	}

	a, err := h.schedulingSvc.BookAppointment(c.Request.Context(), &appointment.BookAppointmentCommand{
		PatientID:    req.PatientID,
		PhysicianID:  req.PhysicianID,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: durationMins,
		Reason:       req.Reason,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.schedulingSvc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

type transitionRequest struct {
	Status      appointment.Status `json:"status" binding:"required"`
	Observation string             `json:"observation"`
}

func (h *AppointmentHandler) Transition(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.schedulingSvc.TransitionAppointment(c.Request.Context(), id, req.Status, req.Observation, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

// ListByDate serves GET /appointments?date=YYYY-MM-DD, the day's agenda.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date query parameter is required (YYYY-MM-DD)"})
		return
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: must be YYYY-MM-DD"})
		return
	}

	summaries, err := h.schedulingSvc.ListByDate(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toSummaryResponses(summaries))
}
