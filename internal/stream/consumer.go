// Package stream scores FraudRequest messages read from Kafka through the
// same path the RPC endpoint uses.
package stream

import (
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	pb "fraud-inference/pb"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/rpcserver"
	"fraud-inference/internal/scoring"
)

const (
	// minCommitCount is how many messages are processed between offset commits.
	minCommitCount = 20
	pollTimeoutMs  = 100
)

// Predictor scores one payment-level request.
type Predictor interface {
	Predict(req *pb.FraudRequest, source string) (scoring.Verdict, error)
}

// Consumer reads a topic of serialized FraudRequests. Offsets are committed
// manually, so a crash replays at most minCommitCount messages.
type Consumer struct {
	consumer *kafka.Consumer
	topic    string
	log      zerolog.Logger

	handler handler
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewConsumer subscribes a consumer group to topic.
func NewConsumer(broker, topic, groupID string, log zerolog.Logger) (*Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  broker,
		"group.id":           groupID,
		"auto.offset.reset":  "smallest",
		"enable.auto.commit": "false",
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	log = log.With().Str("component", "stream").Str("topic", topic).Logger()
	return &Consumer{
		consumer: consumer,
		topic:    topic,
		log:      log,
		handler:  handler{log: log},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Name identifies the consumer in lifecycle logs.
func (c *Consumer) Name() string {
	return "stream"
}

// Start begins polling in the background, scoring through svc.
func (c *Consumer) Start(svc *rpcserver.Service) error {
	c.handler.pred = svc
	c.started = true
	go c.run()
	return nil
}

// Stop ends the poll loop, commits what was processed and closes the
// consumer, leaving the group. A consumer that never started is only closed.
func (c *Consumer) Stop() {
	close(c.stop)
	if c.started {
		<-c.done
		if _, err := c.consumer.Commit(); err != nil {
			var kerr kafka.Error
			if !errors.As(err, &kerr) || kerr.Code() != kafka.ErrNoOffset {
				c.log.Warn().Err(err).Msg("Final commit failed")
			}
		}
	}
	if err := c.consumer.Close(); err != nil {
		c.log.Error().Err(err).Msg("Consumer close failed")
	}
}

func (c *Consumer) run() {
	defer close(c.done)
	c.log.Info().Msg("Starting stream consumer")

	msgCount := 0
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		ev := c.consumer.Poll(pollTimeoutMs)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			c.handler.handle(e.Value)
			msgCount++
			if msgCount%minCommitCount == 0 {
				if _, err := c.consumer.Commit(); err != nil {
					c.log.Warn().Err(err).Msg("Commit failed")
				}
			}
		case kafka.PartitionEOF:
			c.log.Debug().Str("partition", e.String()).Msg("Reached end of partition")
		case kafka.Error:
			c.log.Error().Err(e).Msg("Consumer error")
		default:
			c.log.Debug().Str("event", e.String()).Msg("Ignored event")
		}
	}
}

// handler decodes and scores one message value.
type handler struct {
	pred Predictor
	log  zerolog.Logger
}

// handle reports whether the message was scored. Undecodable or invalid
// messages are logged and skipped.
func (h handler) handle(value []byte) bool {
	var req pb.FraudRequest
	if err := proto.Unmarshal(value, &req); err != nil {
		h.log.Warn().Err(err).Int("bytes", len(value)).Msg("Failed to unmarshal")
		return false
	}

	verdict, err := h.pred.Predict(&req, audit.SourceStream)
	if err != nil {
		h.log.Warn().Err(err).Str("transaction_id", req.GetTransactionId()).Msg("Skipping transaction")
		return false
	}

	h.log.Debug().
		Str("transaction_id", req.GetTransactionId()).
		Float64("amount", req.GetAmount()).
		Bool("fraudulent", verdict.IsFraud).
		Msg("Transaction scored")
	return true
}
