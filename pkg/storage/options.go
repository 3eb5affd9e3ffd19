package storage

import (
	"time"

	"go.uber.org/zap"
)

type EngineOption func(*Engine)

func WithDataDir(dir string) EngineOption {
	return func(engine *Engine) {
		engine.dataDir = dir
	}
}

// WithBackgroundSave persists dirty databases on an interval instead of after
// every write.
func WithBackgroundSave(interval time.Duration) EngineOption {
	return func(engine *Engine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
		engine.transactionSave = false
	}
}

// WithTransactionSave enables saving after every write transaction (default: true)
func WithTransactionSave(enabled bool) EngineOption {
	return func(engine *Engine) {
		engine.transactionSave = enabled
	}
}

func WithLogger(logger *zap.SugaredLogger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithTransportFactory replaces the HTTP transport used by replicators.
func WithTransportFactory(factory TransportFactory) EngineOption {
	return func(engine *Engine) {
		engine.transportFactory = factory
	}
}

// WithReplicationInterval sets the pause between passes of a continuous
// replicator.
func WithReplicationInterval(interval time.Duration) EngineOption {
	return func(engine *Engine) {
		engine.replicationInterval = interval
	}
}
