// Package audit streams every committed mutation to kafka as an
// append-only trail of who changed what. In mock mode (development,
// tests) records only hit the log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"eventdesk/internal/logger"
)

// Record is one committed mutation.
type Record struct {
	Action    string    `json:"action"`
	Kind      string    `json:"kind"`
	IDs       []string  `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer struct {
	Writer   *kafka.Writer
	MockMode bool
	Log      *logger.Logger
}

// NewProducer builds a kafka-backed audit producer. With mock true no
// connection is made and records are only logged.
func NewProducer(brokers []string, topic string, mock bool, log *logger.Logger) *Producer {
	p := &Producer{MockMode: mock, Log: log}
	if !mock {
		p.Writer = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	}
	return p
}

// Publish sends one mutation record. Keyed by kind so per-entity
// ordering holds within a partition.
func (p *Producer) Publish(action, kind string, ids []string) error {
	record := Record{Action: action, Kind: kind, IDs: ids, Timestamp: time.Now().UTC()}
	msgBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if p.MockMode {
		p.Log.Debug("AUDIT", fmt.Sprintf("mock publish %s", string(msgBytes)))
		return nil
	}

	return p.Writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(kind),
		Value: msgBytes,
	})
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
