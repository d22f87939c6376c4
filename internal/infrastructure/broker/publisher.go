// Package broker publica las órdenes finalizadas en RabbitMQ para que otro servicio
// (cocina, contabilidad) las registre y descuente el inventario central.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

const publishTimeout = 5 * time.Second

var _ checkout.OrderSubmitter = (*Publisher)(nil)

// Config datos de conexión y destino de las órdenes.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// Publisher implementa checkout.OrderSubmitter publicando en un exchange topic con
// confirmación del broker: Submit solo retorna nil cuando RabbitMQ aceptó el mensaje.
type Publisher struct {
	cfg  Config
	log  *logger.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial abre la conexión, declara el exchange y activa el modo confirm.
func Dial(cfg Config, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "pos_orders"
	}
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = "order.created"
	}
	p := &Publisher{cfg: cfg, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: confirm mode: %w", err)
	}
	p.conn = conn
	p.ch = ch
	return nil
}

// Submit publica la orden como JSON persistente y espera la confirmación.
func (p *Publisher) Submit(ctx context.Context, order *entity.Order) error {
	body, err := json.Marshal(NewOrderMessage(order))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal order: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		p.log.Warn().Msg("conexión con rabbitmq cerrada, reconectando")
		if err := p.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.cfg.Exchange, p.cfg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    order.ID,
		Timestamp:    order.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq: confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("rabbitmq: orden %s rechazada por el broker", order.ID)
	}

	p.log.Debug().
		Str("order_id", order.ID).
		Str("routing_key", p.cfg.RoutingKey).
		Msg("orden publicada")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
