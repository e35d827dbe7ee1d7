package repositories

import (
	"errors"
	"strings"

	"reservas-api/domain"

	"gorm.io/gorm"
)

// CouponRepository define las operaciones de persistencia de cupones
type CouponRepository interface {
	GetByCode(code string) (*domain.Coupon, error)

	// ConsumeUse incrementa el contador de usos de forma atómica.
	// Devuelve domain.ErrCouponInvalid si el cupón ya llegó a su tope:
	// el chequeo y el incremento van en el mismo UPDATE condicional para
	// que dos redenciones concurrentes no puedan pasarse del máximo.
	ConsumeUse(id uint) error
}

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository crea una nueva instancia del repositorio
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

// GetByCode busca un cupón por su código (case-insensitive)
func (r *couponRepository) GetByCode(code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// ConsumeUse incrementa usos con un UPDATE condicional, nunca con
// read-then-write: `current_uses = current_uses + 1 WHERE ... < max_uses`
func (r *couponRepository) ConsumeUse(id uint) error {
	result := r.db.Model(&domain.Coupon{}).
		Where("id = ? AND (max_uses = 0 OR current_uses < max_uses)", id).
		Update("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponInvalid
	}
	return nil
}
