package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/pkg/contracts/events"
)

// Publisher envia eventos de auditoria do gateway.
// As chamadas nunca bloqueiam nem falham a requisição.
type Publisher interface {
	SubgraphRequest(ev events.SubgraphRequest)
	GeoDecision(ev events.GeoDecision)
	Close() error
}

// Nop descarta tudo (AUDIT_ENABLED=false)
type Nop struct{}

func (Nop) SubgraphRequest(events.SubgraphRequest) {}
func (Nop) GeoDecision(events.GeoDecision)         {}
func (Nop) Close() error                           { return nil }

// messageWriter é o subconjunto do kafka.Writer usado aqui
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica em JSON, chaveado pelo request id
type KafkaPublisher struct {
	w   messageWriter
	log *zap.Logger

	topicSubgraph string
	topicGeo      string

	now func() time.Time
}

// NewKafkaPublisher usa um writer assíncrono (ver shared/kafka.NewAsyncWriter)
func NewKafkaPublisher(w messageWriter, log *zap.Logger, topicSubgraph, topicGeo string) *KafkaPublisher {
	return &KafkaPublisher{
		w:             w,
		log:           log,
		topicSubgraph: topicSubgraph,
		topicGeo:      topicGeo,
		now:           time.Now,
	}
}

// SubgraphRequest completa id/ts e publica no tópico de requests do proxy
func (p *KafkaPublisher) SubgraphRequest(ev events.SubgraphRequest) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Ts.IsZero() {
		ev.Ts = p.now().UTC()
	}
	p.publish(p.topicSubgraph, ev.RequestID, ev)
}

// GeoDecision completa id/ts e publica no tópico de decisões geo
func (p *KafkaPublisher) GeoDecision(ev events.GeoDecision) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Ts.IsZero() {
		ev.Ts = p.now().UTC()
	}
	p.publish(p.topicGeo, ev.RequestID, ev)
}

func (p *KafkaPublisher) publish(topic, key string, v any) {
	value, err := json.Marshal(v)
	if err != nil {
		p.log.Error("audit encode failed", zap.String("topic", topic), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  p.now(),
	}
	if err := p.w.WriteMessages(context.Background(), msg); err != nil {
		p.log.Warn("audit publish failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	p.log.Debug("audit published", zap.String("topic", topic), zap.String("key", key))
}

// Close descarrega o buffer do writer
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// LogCompletion loga falhas do writer assíncrono
func LogCompletion(log *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err != nil {
			log.Warn("audit batch failed", zap.Int("messages", len(msgs)), zap.Error(err))
		}
	}
}
