package v1

import (
	"strconv"
	"time"

	"github.com/avillagra/turnero/internal/domain/appointment"
	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/avillagra/turnero/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PhysicianHandler struct {
	physicianSvc  *service.PhysicianService
	schedulingSvc *service.SchedulingService
}

func NewPhysicianHandler(physicianSvc *service.PhysicianService, schedulingSvc *service.SchedulingService) *PhysicianHandler {
	return &PhysicianHandler{physicianSvc: physicianSvc, schedulingSvc: schedulingSvc}
}

type registerPhysicianRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Specialty     string `json:"specialty" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

type physicianResponse struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
}

func toPhysicianResponse(p *physician.Physician) physicianResponse {
	return physicianResponse{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Specialty:     p.Specialty,
		LicenseNumber: p.LicenseNumber,
		Phone:         p.Phone,
		Email:         p.Email,
	}
}

func (h *PhysicianHandler) Register(c *gin.Context) {
	var req registerPhysicianRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.physicianSvc.RegisterPhysician(c.Request.Context(), &physician.RegisterPhysicianCommand{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Email:         req.Email,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPhysicianResponse(p))
}

func (h *PhysicianHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.physicianSvc.GetPhysician(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPhysicianResponse(p))
}

func (h *PhysicianHandler) List(c *gin.Context) {
	physicians, err := h.physicianSvc.ListPhysicians(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]physicianResponse, 0, len(physicians))
	for _, p := range physicians {
		out = append(out, toPhysicianResponse(p))
	}
	respondOK(c, out)
}

type availabilityResponse struct {
	PhysicianID  uuid.UUID `json:"physician_id"`
	Start        time.Time `json:"start"`
	DurationMins int       `json:"duration_mins"`
	Available    bool      `json:"available"`
}

// Availability answers "is this physician free at start for duration_mins?".
func (h *PhysicianHandler) Availability(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		respondServiceError(c, appointment.ErrInvalidScheduledAt)
		return
	}

	durationMins := appointment.DefaultDurationMins
	if raw := c.Query("duration_mins"); raw != "" {
		durationMins, err = strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, appointment.ErrInvalidDuration)
			return
		}
	}

	available, err := h.schedulingSvc.CheckAvailability(c.Request.Context(), id, start, durationMins)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, availabilityResponse{
		PhysicianID:  id,
		Start:        start,
		DurationMins: durationMins,
		Available:    available,
	})
}
