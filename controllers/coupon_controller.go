package controllers

import (
	"errors"
	"net/http"

	"reservas-api/domain"
	"reservas-api/dto"
	"reservas-api/services"

	"github.com/gin-gonic/gin"
)

// CouponController maneja la validación standalone de cupones
type CouponController struct {
	service services.CouponService
}

// NewCouponController crea una nueva instancia del controlador
func NewCouponController(service services.CouponService) *CouponController {
	return &CouponController{service: service}
}

// Validate maneja POST /coupons/validate
// A diferencia de la admisión (que ignora cupones inválidos), acá un
// cupón vencido o agotado es un error para el caller.
func (ctrl *CouponController) Validate(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	coupon, err := ctrl.service.Validate(req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "coupon_not_found",
				Message: err.Error(),
			})
		case errors.Is(err, domain.ErrCouponInvalid):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "coupon_invalid",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
		}
		return
	}

	resp := dto.CouponResponse{
		Code:          coupon.Code,
		Description:   coupon.Description,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}
	if coupon.MinimumAmount != nil {
		resp.MinimumAmount = *coupon.MinimumAmount
	}
	if coupon.EndDate != nil {
		resp.EndDate = coupon.EndDate.Format(dto.DateLayout)
	}

	c.JSON(http.StatusOK, resp)
}
