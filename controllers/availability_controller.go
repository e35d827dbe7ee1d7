package controllers

import (
	"net/http"
	"strconv"
	"time"

	"reservas-api/dto"
	"reservas-api/services"

	"github.com/gin-gonic/gin"
)

// AvailabilityController maneja los endpoints de consulta del calendario.
// Son lecturas cacheadas: sirven para pintar el calendario del frontend,
// la palabra final siempre la tiene la admisión.
type AvailabilityController struct {
	service services.AvailabilityService
}

// NewAvailabilityController crea una nueva instancia del controlador
func NewAvailabilityController(service services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{service: service}
}

// IsAvailable maneja GET /availability/:roomId?from=...&to=...
func (ctrl *AvailabilityController) IsAvailable(c *gin.Context) {
	roomID, from, to, ok := parseRangeParams(c)
	if !ok {
		return
	}

	available, err := ctrl.service.IsAvailable(roomID, from, to)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		From:      from.Format(dto.DateLayout),
		To:        to.Format(dto.DateLayout),
		Available: available,
	})
}

// Prices maneja GET /availability/:roomId/prices?from=...&to=...
func (ctrl *AvailabilityController) Prices(c *gin.Context) {
	roomID, from, to, ok := parseRangeParams(c)
	if !ok {
		return
	}

	prices, err := ctrl.service.PricesForRange(roomID, from, to)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PricesResponse{
		RoomID: roomID,
		Prices: prices,
	})
}

// parseRangeParams lee :roomId y los query params from/to.
// Responde él mismo el 400 si algo viene mal.
func parseRangeParams(c *gin.Context) (uint, time.Time, time.Time, bool) {
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid room ID",
		})
		return 0, time.Time{}, time.Time{}, false
	}

	from, err := time.Parse(dto.DateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid 'from' date, expected YYYY-MM-DD",
		})
		return 0, time.Time{}, time.Time{}, false
	}

	to, err := time.Parse(dto.DateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid 'to' date, expected YYYY-MM-DD",
		})
		return 0, time.Time{}, time.Time{}, false
	}

	if to.Before(from) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "'to' date must not be before 'from' date",
		})
		return 0, time.Time{}, time.Time{}, false
	}

	return uint(roomID), from, to, true
}
