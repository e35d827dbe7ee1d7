package repositories

import (
	"context"
	"database/sql"
	"errors"

	"reservas-api/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Códigos de error de MySQL que indican que la transacción perdió contra
// otra y se puede reintentar
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

// RepoSet agrupa los repositorios atados a UNA misma transacción. El
// coordinador de admisión recibe este set adentro del callback y todo lo
// que haga con él se confirma o se descarta junto.
type RepoSet struct {
	Reservations ReservationRepository
	Rooms        RoomRepository
	Availability AvailabilityRepository
	Coupons      CouponRepository
}

// UnitOfWork es el límite transaccional explícito del sistema. En lugar de
// una transacción ambiente escondida en un contexto global, la admisión
// recibe este handle y ejecuta sus pasos adentro de RunSerializable:
// o se persiste todo junto (reserva + calendario + uso de cupón) o nada.
type UnitOfWork interface {
	RunSerializable(ctx context.Context, fn func(repos RepoSet) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork crea el unit of work sobre la conexión gorm
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

// RunSerializable ejecuta fn adentro de una transacción SERIALIZABLE.
// Es el aislamiento más fuerte que ofrece MySQL: dos admisiones
// concurrentes sobre la misma habitación no pueden confirmar las dos sin
// que una vea a la otra. Si la transacción pierde (deadlock / lock wait)
// se devuelve domain.ErrTxConflict para que el servicio reintente.
func (u *gormUnitOfWork) RunSerializable(ctx context.Context, fn func(repos RepoSet) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(RepoSet{
			Reservations: NewReservationRepository(tx),
			Rooms:        NewRoomRepository(tx),
			Availability: NewAvailabilityRepository(tx),
			Coupons:      NewCouponRepository(tx),
		})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil && isRetryable(err) {
		return domain.ErrTxConflict
	}

	return err
}

// isRetryable clasifica los errores de MySQL que ameritan reintento
func isRetryable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
	}
	return false
}
