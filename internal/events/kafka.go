package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/utils"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 1024
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier writes events as JSON keyed by promotion id, so every event
// of one promotion lands on the same partition in order. When a signing
// secret is set each message carries an HMAC-SHA256 "signature" header.
//
// Notify only queues the message; a single background goroutine publishes
// in order. A full queue drops the event and counts it.
type KafkaNotifier struct {
	writer messageWriter
	secret string

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewKafkaWriter builds the writer used by NewKafkaNotifier.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaNotifier wraps a kafka writer and starts its publisher.
func NewKafkaNotifier(writer messageWriter, secret string) *KafkaNotifier {
	return newKafkaNotifier(writer, secret, queueSize)
}

func newKafkaNotifier(writer messageWriter, secret string, size int) *KafkaNotifier {
	k := &KafkaNotifier{
		writer: writer,
		secret: secret,
		queue:  make(chan kafka.Message, size),
		done:   make(chan struct{}),
	}
	go k.publish()
	return k
}

// Notify implements Notifier.
func (k *KafkaNotifier) Notify(_ context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("event", string(e.Type)).Msg("Failed to marshal kafka event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(e.PromotionID),
		Value: data,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if k.secret != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "signature", Value: []byte(utils.GenerateSignature(data, k.secret))})
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		metrics.EventsPublished.WithLabelValues("kafka", "dropped").Inc()
		return
	}
	select {
	case k.queue <- msg:
	default:
		metrics.EventsPublished.WithLabelValues("kafka", "dropped").Inc()
		log.Warn().
			Str("event", string(e.Type)).
			Str("promotion_id", e.PromotionID).
			Msg("Kafka queue full, dropping event")
	}
}

func (k *KafkaNotifier) publish() {
	defer close(k.done)
	for msg := range k.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := k.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			metrics.EventsPublished.WithLabelValues("kafka", "error").Inc()
			log.Error().Err(err).
				Str("promotion_id", string(msg.Key)).
				Msg("Failed to publish kafka event")
			continue
		}
		metrics.EventsPublished.WithLabelValues("kafka", "ok").Inc()
	}
}

// Close publishes whatever is queued, then closes the writer. Events
// notified after Close are dropped.
func (k *KafkaNotifier) Close() error {
	k.mu.Lock()
	if !k.closed {
		k.closed = true
		close(k.queue)
	}
	k.mu.Unlock()

	<-k.done
	return k.writer.Close()
}
