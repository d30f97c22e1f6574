package audit

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"fraud-inference/internal/metrics"
)

const flushTimeoutMs = 5000

// KafkaPublisher produces protobuf VerdictEvents keyed by transaction id.
// Produce only enqueues into the client's buffer; delivery reports are read
// on a separate goroutine.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	geo      GeoResolver
	log      zerolog.Logger
	done     chan struct{}

	// mu guards the producer handle against use after Close.
	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher connects a producer to broker. geo may be nil.
func NewKafkaPublisher(broker, topic string, geo GeoResolver, log zerolog.Logger) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": broker,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	k := &KafkaPublisher{
		producer: p,
		topic:    topic,
		geo:      geo,
		log:      log.With().Str("component", "audit").Str("topic", topic).Logger(),
		done:     make(chan struct{}),
	}
	go k.deliveries()
	return k, nil
}

// Publish enqueues rec. Failures are logged, never returned: an audit
// problem must not change the verdict the caller already has.
func (k *KafkaPublisher) Publish(rec Record) {
	bytes, err := proto.Marshal(rec.Event(k.geo))
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		k.log.Error().Err(err).Str("transaction_id", rec.TransactionID).Msg("Serialization failed")
		return
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		k.log.Warn().Str("transaction_id", rec.TransactionID).Msg("Publisher closed, audit event dropped")
		return
	}

	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(rec.TransactionID),
		Value:          bytes,
	}, nil)
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		k.log.Warn().Err(err).Str("transaction_id", rec.TransactionID).Msg("Kafka push failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("queued").Inc()
}

func (k *KafkaPublisher) deliveries() {
	defer close(k.done)
	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
				k.log.Warn().Err(ev.TopicPartition.Error).Str("key", string(ev.Key)).Msg("Audit event not delivered")
				continue
			}
			metrics.AuditEventsTotal.WithLabelValues("delivered").Inc()
		case kafka.Error:
			k.log.Error().Err(ev).Msg("Kafka error")
		}
	}
}

// Close flushes outstanding events and shuts the producer down. Later
// Publish calls are dropped; calling Close again does nothing.
func (k *KafkaPublisher) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true

	if left := k.producer.Flush(flushTimeoutMs); left > 0 {
		k.log.Warn().Int("unflushed", left).Msg("Closing with undelivered audit events")
	}
	k.producer.Close()
	<-k.done
}
