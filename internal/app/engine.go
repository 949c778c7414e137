package app

import (
	"log/slog"

	"github.com/avolyn/groovebox/internal/player/application"
	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/application/usecases"
	"github.com/avolyn/groovebox/internal/player/domain"
	"github.com/avolyn/groovebox/internal/player/infrastructure"
)

// OutputFactory builds the audio output used by the engine. Events the
// output emits must be delivered to the provided listener.
type OutputFactory func(listener ports.OutputListener) (ports.AudioOutput, error)

// Engine assembles the player: state, event bus, transport and services.
type Engine struct {
	state   *domain.PlayerState
	bus     *infrastructure.ChannelEventBus
	output  ports.AudioOutput
	adapter *infrastructure.TransportAdapter
	history *infrastructure.MemoryHistoryStore

	transport *usecases.TransportService
	queue     *usecases.QueueService
}

// NewEngine wires the full playback engine from configuration. The
// returned engine owns the event bus and the audio output; Close releases
// both.
func NewEngine(cfg *Config, newOutput OutputFactory) (*Engine, error) {
	state := domain.NewPlayerState(cfg.DefaultVolume)
	bus := infrastructure.NewChannelEventBus(cfg.EventBufferSize)
	adapter := infrastructure.NewTransportAdapter(state, bus, cfg.FallbackURLs)

	output, err := newOutput(adapter.HandleOutputEvent)
	if err != nil {
		bus.Close()
		return nil, err
	}
	adapter.AttachOutput(output)

	history := infrastructure.NewMemoryHistoryStore(cfg.HistoryLimit)

	playbackHandler := application.NewPlaybackEventHandler(state, adapter, bus)
	playbackHandler.Start()
	historyHandler := application.NewHistoryEventHandler(history, bus)
	historyHandler.Start()

	engine := &Engine{
		state:     state,
		bus:       bus,
		output:    output,
		adapter:   adapter,
		history:   history,
		transport: usecases.NewTransportService(state, adapter),
		queue:     usecases.NewQueueService(state, adapter, bus),
	}

	slog.Info("playback engine initialized",
		"default_volume", cfg.DefaultVolume,
		"fallback_sources", len(cfg.FallbackURLs))

	return engine, nil
}

// State returns the player state store.
func (e *Engine) State() *domain.PlayerState {
	return e.state
}

// Transport returns the transport service.
func (e *Engine) Transport() *usecases.TransportService {
	return e.transport
}

// Queue returns the queue service.
func (e *Engine) Queue() *usecases.QueueService {
	return e.queue
}

// History returns the recently-played store.
func (e *Engine) History() *infrastructure.MemoryHistoryStore {
	return e.history
}

// Events exposes the engine's event stream for additional subscribers.
func (e *Engine) Events() ports.EventSubscriber {
	return e.bus
}

// Close shuts down the event bus and the audio output.
func (e *Engine) Close() error {
	e.bus.Close()
	return e.output.Close()
}
