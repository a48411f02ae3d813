package canopy

// EngineOption configures an Engine during creation.
//
// Example:
//
//	// Default engine, fresh scratch buffers per placement
//	e := canopy.NewEngine(cfg)
//
//	// Shared scratch pool
//	e := canopy.NewEngine(cfg, canopy.WithPool(canopy.NewBufferPool(4)))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	pool *BufferPool
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		pool: nil, // Scratch buffers are allocated per attempt if nil
	}
}

// WithPool makes the engine draw resampled fragment scratch buffers from
// pool. Fragments placed repeatedly at the same footprint then reuse memory.
func WithPool(p *BufferPool) EngineOption {
	return func(o *engineOptions) {
		o.pool = p
	}
}

// SessionOption configures a Session during creation.
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	engine    *Engine
	reference *RGB
}

// WithEngine sets the engine the session validates placements with.
// By default the session builds one from its Config.
func WithEngine(e *Engine) SessionOption {
	return func(o *sessionOptions) {
		o.engine = e
	}
}

// WithReference starts the session with a reference color already chosen,
// for example one restored from an earlier run.
func WithReference(c RGB) SessionOption {
	return func(o *sessionOptions) {
		o.reference = &c
	}
}
