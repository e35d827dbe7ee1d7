package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"reservas-api/domain"
	"reservas-api/dto"
	"reservas-api/services"
	"reservas-api/utils"

	"github.com/gin-gonic/gin"
)

// ReservationController maneja los endpoints HTTP de reservas
type ReservationController struct {
	service services.ReservationService
}

// NewReservationController crea una nueva instancia del controlador
func NewReservationController(service services.ReservationService) *ReservationController {
	return &ReservationController{service: service}
}

// Create maneja POST /reservations
// Es el único punto de entrada de reservas nuevas: toda la lógica de
// admisión (solapamiento, precio, calendario) vive en el servicio
func (ctrl *ReservationController) Create(c *gin.Context) {
	// 1. Leer el JSON del body y parsearlo al request tipado
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	// 2. El usuario autenticado viene del middleware JWT
	userID := currentUserID(c)

	// 3. Delegar la admisión al servicio
	reservation, err := ctrl.service.Admit(c.Request.Context(), req, userID)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	// 4. Devolver la reserva creada (queda pending hasta el pago)
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Reservation created successfully",
		Data:    dto.NewReservationResponse(reservation),
	})
}

// GetByID maneja GET /reservations/:id
func (ctrl *ReservationController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.GetByID(id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	if !canViewReservation(c, reservation) {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "You cannot access this reservation",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewReservationResponse(reservation))
}

// GetByCode maneja GET /reservations/code/:code
func (ctrl *ReservationController) GetByCode(c *gin.Context) {
	code := c.Param("code")

	reservation, err := ctrl.service.GetByCode(code)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	if !canViewReservation(c, reservation) {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "You cannot access this reservation",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewReservationResponse(reservation))
}

// ListMine maneja GET /reservations (las del usuario autenticado)
// Con ?active=true devuelve solo las pendientes y confirmadas
func (ctrl *ReservationController) ListMine(c *gin.Context) {
	userID := currentUserID(c)
	activeOnly := c.Query("active") == "true"

	reservations, err := ctrl.service.ListByUser(userID, activeOnly)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	responses := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		responses = append(responses, dto.NewReservationResponse(&reservations[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// Confirm maneja PUT /reservations/:id/confirm (host o admin)
func (ctrl *ReservationController) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.Confirm(c.Request.Context(), id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Reservation confirmed",
		Data:    dto.NewReservationResponse(reservation),
	})
}

// Cancel maneja PUT /reservations/:id/cancel
// Pueden cancelar el dueño de la reserva, un host o un admin
func (ctrl *ReservationController) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	// Autorización: el servicio solo cuida el grafo de estados, quién
	// puede cancelar se decide acá con los datos del token
	reservation, err := ctrl.service.GetByID(id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	if !canViewReservation(c, reservation) {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "You cannot cancel this reservation",
		})
		return
	}

	actorID := currentUserID(c)

	cancelled, err := ctrl.service.Cancel(c.Request.Context(), id, req.Reason, actorID)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Reservation cancelled",
		Data:    dto.NewReservationResponse(cancelled),
	})
}

// Complete maneja PUT /reservations/:id/complete (host o admin)
func (ctrl *ReservationController) Complete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.Complete(c.Request.Context(), id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Reservation completed",
		Data:    dto.NewReservationResponse(reservation),
	})
}

// MarkNoShow maneja PUT /reservations/:id/no-show (host o admin)
func (ctrl *ReservationController) MarkNoShow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.MarkNoShow(c.Request.Context(), id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Reservation marked as no show",
		Data:    dto.NewReservationResponse(reservation),
	})
}

// HealthCheck maneja GET /health
func (ctrl *ReservationController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "reservas-api",
	})
}

// parseID lee el :id de la URL; si es inválido responde él mismo el 400
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid reservation ID",
		})
		return 0, false
	}
	return uint(id), true
}

// currentUserID saca el usuario autenticado que dejó el middleware
func currentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// canViewReservation decide si el usuario del token puede operar sobre
// la reserva: el dueño, un host o un admin
func canViewReservation(c *gin.Context, reservation *domain.Reservation) bool {
	if reservation.UserID == currentUserID(c) {
		return true
	}

	role, _ := c.Get("role")
	return role == utils.RoleHost || role == utils.RoleAdmin
}

// respondReservationError mapea los errores del dominio a HTTP.
// Los AdmissionError traen la regla que falló; el resto son sentinels.
func respondReservationError(c *gin.Context, err error) {
	if admissionErr := domain.IsAdmissionError(err); admissionErr != nil {
		status := http.StatusBadRequest
		if admissionErr.Code == domain.AdmissionDateConflict {
			status = http.StatusConflict
		}

		c.JSON(status, dto.ErrorResponse{
			Error:   string(admissionErr.Code),
			Message: admissionErr.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrReservationNotFound), errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "busy",
			Message: "The system is busy, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
