package publishers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reservas-api/domain"

	"github.com/streadway/amqp"
)

// Acciones publicadas sobre el exchange de reservas. Las consumen los
// colaboradores externos: el servicio de pagos escucha "created" para
// iniciar el cobro, el indexador la usa para refrescar disponibilidad.
const (
	ActionCreated   = "created"
	ActionConfirmed = "confirmed"
	ActionCancelled = "cancelled"
	ActionCompleted = "completed"
	ActionNoShow    = "no_show"
)

const exchangeName = "reservations_events"

// ReservationEvent representa un mensaje sobre una reserva
type ReservationEvent struct {
	Action        string    `json:"action"`
	ReservationID uint      `json:"reservation_id"`
	Code          string    `json:"code"`
	RoomID        uint      `json:"room_id"`
	UserID        uint      `json:"user_id"`
	CheckinDate   string    `json:"checkin_date"`
	CheckoutDate  string    `json:"checkout_date"`
	Total         string    `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationPublisher publica los eventos del ciclo de vida de una
// reserva. La publicación pasa DESPUÉS del commit de la transacción y es
// best-effort: un broker caído no voltea una admisión ya persistida.
type ReservationPublisher interface {
	Publish(action string, reservation *domain.Reservation) error
	Close()
}

// rabbitPublisher implementa ReservationPublisher sobre RabbitMQ
type rabbitPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
}

// NewRabbitPublisher conecta con RabbitMQ y declara el exchange de eventos
func NewRabbitPublisher(rabbitURL string) (ReservationPublisher, error) {
	log.Printf("Connecting to RabbitMQ at %s", rabbitURL)

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Exchange tipo topic: cada consumidor se ata a las acciones que le
	// interesan (reservation.created, reservation.cancelled, etc.)
	err = ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("Exchange '%s' declared successfully", exchangeName)

	return &rabbitPublisher{
		connection: conn,
		channel:    ch,
	}, nil
}

// Publish arma el evento y lo manda con routing key "reservation.<action>"
func (p *rabbitPublisher) Publish(action string, reservation *domain.Reservation) error {
	event := ReservationEvent{
		Action:        action,
		ReservationID: reservation.ID,
		Code:          reservation.Code,
		RoomID:        reservation.RoomID,
		UserID:        reservation.UserID,
		CheckinDate:   reservation.CheckinDate.Format("2006-01-02"),
		CheckoutDate:  reservation.CheckoutDate.Format("2006-01-02"),
		Total:         reservation.Total.StringFixed(2),
		OccurredAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := "reservation." + action

	err = p.channel.Publish(
		exchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close cierra el channel y la conexión
func (p *rabbitPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		p.connection.Close()
	}
}

// noopPublisher descarta los eventos. Se usa cuando RabbitMQ no está
// configurado: el core de reservas funciona igual, solo que sin avisarle
// a los consumidores externos.
type noopPublisher struct{}

// NewNoopPublisher crea un publisher que no hace nada
func NewNoopPublisher() ReservationPublisher {
	return &noopPublisher{}
}

func (p *noopPublisher) Publish(action string, reservation *domain.Reservation) error {
	return nil
}

func (p *noopPublisher) Close() {}
