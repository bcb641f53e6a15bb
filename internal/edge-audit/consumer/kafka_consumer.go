package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/pkg/contracts/events"
)

// MessageReader é o subconjunto do kafka.Reader usado pelo loop
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Store persiste os eventos (ver repository.PostgresRepo)
type Store interface {
	InsertSubgraph(ctx context.Context, e events.SubgraphRequest) (inserted bool, err error)
	InsertGeo(ctx context.Context, e events.GeoDecision) (inserted bool, err error)
}

// Counters agrega os eventos (ver counters.RedisCounters)
type Counters interface {
	IncSubgraph(ctx context.Context, outcome string) error
	IncGeoBlocked(ctx context.Context, country string) error
}

// Processor consome os tópicos de auditoria, persiste e atualiza contadores.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log      *zap.Logger
	Reader   MessageReader
	Store    Store
	Counters Counters

	TopicSubgraph string
	TopicGeo      string

	OnConsumed func(topic string) // métricas
	OnPersist  func(topic string) // métricas
	OnError    func(stage string) // métricas por fase

	RetryDelay time.Duration // pausa após falha de leitura (padrão 500ms)
}

// Run inicia o loop principal até o contexto ser cancelado
func (p *Processor) Run(ctx context.Context) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed(m.Topic)
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem; erros são logados e contados, nunca propagados
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	switch m.Topic {
	case p.TopicSubgraph:
		var ev events.SubgraphRequest
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.String("topic", m.Topic), zap.Error(err))
			p.fail("decode")
			return
		}
		ok, err := p.Store.InsertSubgraph(ctx, ev)
		if err != nil {
			p.Log.Warn("db insert failed", zap.String("id", ev.ID), zap.Error(err))
			p.fail("db_subgraph")
			return
		}
		// reentrega já contada
		if ok {
			if err := p.Counters.IncSubgraph(ctx, ev.Outcome); err != nil {
				p.Log.Warn("redis incr failed", zap.Error(err))
				p.fail("counter")
			}
		}

	case p.TopicGeo:
		var ev events.GeoDecision
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.String("topic", m.Topic), zap.Error(err))
			p.fail("decode")
			return
		}
		ok, err := p.Store.InsertGeo(ctx, ev)
		if err != nil {
			p.Log.Warn("db insert failed", zap.String("id", ev.ID), zap.Error(err))
			p.fail("db_geo")
			return
		}
		if ok && ev.Blocked {
			if err := p.Counters.IncGeoBlocked(ctx, ev.Country); err != nil {
				p.Log.Warn("redis incr failed", zap.Error(err))
				p.fail("counter")
			}
		}

	default:
		p.Log.Warn("unexpected topic", zap.String("topic", m.Topic))
		p.fail("topic")
		return
	}

	if p.OnPersist != nil {
		p.OnPersist(m.Topic)
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
