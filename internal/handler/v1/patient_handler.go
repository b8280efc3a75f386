package v1

import (
	"time"

	"github.com/avillagra/turnero/internal/domain/patient"
	"github.com/avillagra/turnero/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PatientHandler struct {
	patientSvc    *service.PatientService
	schedulingSvc *service.SchedulingService
}

func NewPatientHandler(patientSvc *service.PatientService, schedulingSvc *service.SchedulingService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, schedulingSvc: schedulingSvc}
}

type registerPatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	NationalID  string `json:"national_id" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type patientResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	NationalID  string    `json:"national_id"`
	DateOfBirth string    `json:"date_of_birth"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		NationalID:  p.NationalID,
		DateOfBirth: p.DateOfBirth.Format("2006-01-02"),
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
	}
}

func (h *PatientHandler) Register(c *gin.Context) {
	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		respondServiceError(c, &service.ValidationError{Fields: []string{"date_of_birth must be YYYY-MM-DD"}})
		return
	}

	p, err := h.patientSvc.RegisterPatient(c.Request.Context(), &patient.RegisterPatientCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		NationalID:  req.NationalID,
		DateOfBirth: dob,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

// List returns all patients, or a single-element list when filtering by
// national_id (the front desk's "search by document" flow).
func (h *PatientHandler) List(c *gin.Context) {
	if nationalID := c.Query("national_id"); nationalID != "" {
		p, err := h.patientSvc.GetPatientByNationalID(c.Request.Context(), nationalID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, []patientResponse{toPatientResponse(p)})
		return
	}

	patients, err := h.patientSvc.ListPatients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientResponse(p))
	}
	respondOK(c, out)
}

type updateContactRequest struct {
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (h *PatientHandler) UpdateContact(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.UpdateContact(c.Request.Context(), id, &patient.UpdateContactCommand{
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) ListAppointments(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	summaries, err := h.schedulingSvc.ListByPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toSummaryResponses(summaries))
}
