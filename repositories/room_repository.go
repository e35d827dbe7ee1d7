package repositories

import (
	"errors"

	"reservas-api/domain"

	"gorm.io/gorm"
)

// RoomRepository es el colaborador de catálogo: este servicio solo lee
// habitaciones, nunca las escribe (el alta y los precios son del catálogo)
type RoomRepository interface {
	GetByID(id uint) (*domain.Room, error)
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository crea una nueva instancia del repositorio
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// GetByID busca una habitación por su ID
func (r *roomRepository) GetByID(id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}
