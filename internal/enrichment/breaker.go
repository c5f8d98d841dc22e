package enrichment

import (
	"context"

	"github.com/evalforge/evalforge/internal/pkg/circuitbreaker"
	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
)

// BreakerClient wraps a Client with a circuit breaker so a dead enrichment
// API fails fast instead of tying up request handlers until timeout. Only
// transport faults trip the breaker; upstream-declared failures are data.
type BreakerClient struct {
	client  *Client
	breaker *circuitbreaker.Breaker
}

// NewBreakerClient wraps the client with a circuit breaker
func NewBreakerClient(client *Client, cfg circuitbreaker.Config) *BreakerClient {
	return &BreakerClient{
		client:  client,
		breaker: circuitbreaker.New(cfg),
	}
}

// PlaceRequest submits an enrichment request through the circuit breaker
func (c *BreakerClient) PlaceRequest(ctx context.Context, req *Request) (*Response, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, apperrors.Infrastructure("enrichment API circuit is open", err)
	}

	resp, err := c.client.PlaceRequest(ctx, req)
	if err != nil {
		c.breaker.Failure()
		return nil, err
	}

	c.breaker.Success()
	return resp, nil
}
