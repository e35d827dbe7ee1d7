package services

import (
	"time"

	"reservas-api/domain"
	"reservas-api/repositories"
)

// CouponService define la validación standalone de cupones.
// Acá un cupón inválido SÍ es error (a diferencia de la admisión,
// donde se ignora y la reserva sigue a precio completo).
type CouponService interface {
	Validate(code string) (*domain.Coupon, error)
}

type couponService struct {
	coupons repositories.CouponRepository
}

// NewCouponService crea una nueva instancia del servicio
func NewCouponService(coupons repositories.CouponRepository) CouponService {
	return &couponService{coupons: coupons}
}

// Validate busca el cupón y verifica que esté vigente
func (s *couponService) Validate(code string) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if !coupon.IsValid(time.Now()) {
		return nil, domain.ErrCouponInvalid
	}

	return coupon, nil
}
