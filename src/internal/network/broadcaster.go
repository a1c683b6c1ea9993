// Package network exchanges wire messages with peer processors over HTTP.
package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

const (
	ContentType = "application/octet-stream"

	maxResponseBytes = 1 << 20
)

// Broadcaster posts encoded messages to registered peers. It is safe for
// concurrent use.
type Broadcaster struct {
	client  *http.Client
	timeout time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	peers []Peer
}

func NewBroadcaster(timeout time.Duration, peers ...Peer) *Broadcaster {
	b := &Broadcaster{
		client:  &http.Client{},
		timeout: timeout,
		now:     time.Now,
	}
	for _, peer := range peers {
		b.AddPeer(peer)
	}
	return b
}

// AddPeer registers a peer once per URL; a repeated URL keeps its first role.
func (b *Broadcaster) AddPeer(peer Peer) {
	if peer.Role == "" {
		peer.Role = RoleNetwork
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.peers {
		if existing.URL == peer.URL {
			return
		}
	}
	b.peers = append(b.peers, peer)
}

func (b *Broadcaster) Peers() []Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Peer(nil), b.peers...)
}

// Broadcast sends msg to all peers concurrently and returns the first error.
func (b *Broadcaster) Broadcast(ctx context.Context, msg *wire.Message) error {
	return b.BroadcastTo(ctx, msg)
}

// BroadcastTo sends msg to the peers holding one of roles, or to every peer
// when roles is empty. Each request is bounded by the broadcaster timeout.
func (b *Broadcaster) BroadcastTo(ctx context.Context, msg *wire.Message, roles ...Role) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, peer := range b.Peers() {
		if !hasRole(roles, peer.Role) {
			continue
		}
		peer := peer
		g.Go(func() error {
			return b.send(gctx, peer.URL, payload)
		})
	}
	return g.Wait()
}

// Heartbeat sends a 0800 network request carrying trace to the given roles.
// It returns the number of peers addressed.
func (b *Broadcaster) Heartbeat(ctx context.Context, trace string, roles ...Role) (int, error) {
	addressed := 0
	for _, peer := range b.Peers() {
		if hasRole(roles, peer.Role) {
			addressed++
		}
	}
	return addressed, b.BroadcastTo(ctx, wire.Heartbeat(trace, b.now()), roles...)
}

func hasRole(roles []Role, role Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (b *Broadcaster) send(ctx context.Context, peer string, payload []byte) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, peer, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", peer, err)
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", peer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("peer %s answered %d: %s", peer, resp.StatusCode, bytes.TrimSpace(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", peer, err)
	}
	if _, err := wire.Decode(body); err != nil {
		return fmt.Errorf("decode response from %s: %w", peer, err)
	}
	return nil
}
