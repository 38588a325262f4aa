package probe

import (
	"log"

	"github.com/nats-io/nats.go"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/model"
)

// Publisher is responsible for publishing packet data to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.ProbeConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish serializes a PacketInfo to wire format and publishes it to the
// configured NATS subject.
func (p *Publisher) Publish(packetInfo *model.PacketInfo) error {
	return p.nc.Publish(p.subject, MarshalPacket(packetInfo))
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
