package health

import "context"

// DBPinger checks dictionary store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BackendPinger checks search engine availability.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
