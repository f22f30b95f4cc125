// Package entropy supplies the 32-bit draws that seed world generation.
// True randomness comes from random.org when an API key is configured,
// falling back to crypto/rand otherwise.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/talgya/landmass/internal/rng"
)

// DefaultEndpoint is the random.org JSON-RPC endpoint.
const DefaultEndpoint = "https://api.random.org/json-rpc/4/invoke"

// random.org caps integer ranges at ±1e9, so each uint32 is assembled from two 16-bit halves.
const (
	halvesPerRefill = 200
	lowWater        = 4
)

// Source yields uniformly distributed 32-bit values.
type Source interface {
	Uint32() uint32
}

// Client provides true random numbers from random.org with a local pool.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client

	mu   sync.Mutex
	pool []uint32
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoint points the client at a different JSON-RPC URL.
func (c *Client) WithEndpoint(url string) *Client {
	if c != nil {
		c.endpoint = url
	}
	return c
}

// Uint32 returns a random value. Uses the pool, refilling from random.org
// when low. Falls back to crypto/rand on API failure or a nil client.
func (c *Client) Uint32() uint32 {
	if c == nil {
		return cryptoUint32()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < lowWater {
		if err := c.refill(); err != nil {
			slog.Debug("random.org refill failed", "error", err)
		}
	}

	if len(c.pool) == 0 {
		return cryptoUint32()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) refill() error {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey":      c.apiKey,
			"n":           halvesPerRefill,
			"min":         0,
			"max":         0xFFFF,
			"replacement": true,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []uint32 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("api error: %s", result.Error.Message)
	}

	data := result.Result.Random.Data
	for i := 0; i+1 < len(data); i += 2 {
		c.pool = append(c.pool, (data[i]&0xFFFF)<<16|data[i+1]&0xFFFF)
	}
	slog.Debug("random.org pool refilled", "count", len(data)/2)
	return nil
}

// Crypto draws from crypto/rand.
type Crypto struct{}

// Uint32 implements Source.
func (Crypto) Uint32() uint32 { return cryptoUint32() }

func cryptoUint32() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("entropy: crypto/rand: %v", err))
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// Deterministic returns a reproducible source for a fixed seed.
func Deterministic(seed int64) Source {
	return rng.New(seed)
}
