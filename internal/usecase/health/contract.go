package health

import "context"

// Pinger answers when the paper store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GenerationChecker answers when the generation provider is reachable.
type GenerationChecker interface {
	HealthCheck(ctx context.Context) error
}
