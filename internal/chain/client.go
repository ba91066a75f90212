// Package chain provides the on-chain code reader backed by one or more
// JSON-RPC endpoints with health-checked failover.
package chain

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"

	"scamscan/internal/address"
	"scamscan/internal/logger"
)

const healthCacheWindow = 5 * time.Second

// Client implements bytecode.ChainReader over a pool of RPC endpoints.
// One endpoint is active at a time; a failed call rotates to the next
// healthy one.
type Client struct {
	urls          []string
	clients       []*ethclient.Client
	current       int
	mu            sync.RWMutex
	timeout       time.Duration
	lastHealthyAt []time.Time
}

// Dial connects to every URL up front. Endpoints that fail to dial stay
// in the pool as unavailable; Dial fails only when none connect.
func Dial(urls []string, timeout time.Duration) (*Client, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one RPC URL is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		urls:          urls,
		timeout:       timeout,
		clients:       make([]*ethclient.Client, len(urls)),
		lastHealthyAt: make([]time.Time, len(urls)),
	}

	connected := 0
	for i, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ec, err := ethclient.Dial(raw)
		if err != nil {
			logger.Warn("failed to connect to RPC [%s]: %v", raw, err)
			continue
		}
		c.clients[i] = ec
		connected++
	}
	if connected == 0 {
		return nil, fmt.Errorf("no RPC endpoint reachable")
	}

	c.current = rand.Intn(len(c.clients))
	return c, nil
}

// CodeAt fetches the deployed code at addr from the active endpoint,
// rotating on failure. The returned string is 0x-prefixed hex; "0x"
// marks a non-contract account.
func (c *Client) CodeAt(ctx context.Context, addr address.Address) (string, error) {
	ec, err := c.active(ctx)
	if err != nil {
		return "", err
	}

	code, err := ec.CodeAt(ctx, addr.Common(), nil)
	if err != nil {
		ec, ferr := c.rotate(ctx)
		if ferr != nil {
			return "", err
		}
		code, err = ec.CodeAt(ctx, addr.Common(), nil)
		if err != nil {
			return "", err
		}
	}
	return hexutil.Encode(code), nil
}

// active returns the current endpoint, re-verifying its health outside
// the cache window.
func (c *Client) active(ctx context.Context) (*ethclient.Client, error) {
	c.mu.RLock()
	current := c.current
	var ec *ethclient.Client
	var lastHealthy time.Time
	if current >= 0 && current < len(c.clients) {
		ec = c.clients[current]
		lastHealthy = c.lastHealthyAt[current]
	}
	c.mu.RUnlock()

	if ec != nil {
		if !lastHealthy.IsZero() && time.Since(lastHealthy) < healthCacheWindow {
			return ec, nil
		}
		pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
		_, err := ec.BlockNumber(pingCtx)
		cancel()
		if err == nil {
			c.mu.Lock()
			c.lastHealthyAt[current] = time.Now()
			c.mu.Unlock()
			return ec, nil
		}
	}

	return c.rotate(ctx)
}

// rotate probes the remaining endpoints in order and promotes the first
// healthy one.
func (c *Client) rotate(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.clients); i++ {
		next := (c.current + 1 + i) % len(c.clients)
		if c.clients[next] == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
		_, err := c.clients[next].BlockNumber(pingCtx)
		cancel()
		if err != nil {
			continue
		}
		c.current = next
		c.lastHealthyAt[next] = time.Now()
		logger.Info("switched to RPC endpoint %s", c.urls[next])
		return c.clients[next], nil
	}
	return nil, fmt.Errorf("all RPC endpoints are unavailable")
}

func (c *Client) CurrentURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current >= 0 && c.current < len(c.urls) {
		return c.urls[c.current]
	}
	return ""
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ec := range c.clients {
		if ec != nil {
			ec.Close()
		}
	}
}
