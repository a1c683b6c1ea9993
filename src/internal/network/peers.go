package network

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleIssuer   Role = "ISSUER"
	RoleAcquirer Role = "ACQUIRER"
	RoleNetwork  Role = "NETWORK"
)

func (r Role) Valid() bool {
	switch r {
	case RoleIssuer, RoleAcquirer, RoleNetwork:
		return true
	}
	return false
}

// Peer is a remote processor reachable at URL.
type Peer struct {
	URL  string
	Role Role
}

// ParsePeer reads "role=url" or a bare url. Bare urls are NETWORK peers.
func ParsePeer(raw string) (Peer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Peer{}, fmt.Errorf("empty peer")
	}

	if name, url, ok := strings.Cut(raw, "="); ok && !strings.Contains(name, "://") {
		role := Role(strings.ToUpper(strings.TrimSpace(name)))
		if !role.Valid() {
			return Peer{}, fmt.Errorf("peer %q: unknown role %q", raw, name)
		}
		url = strings.TrimSpace(url)
		if url == "" {
			return Peer{}, fmt.Errorf("peer %q: missing url", raw)
		}
		return Peer{URL: url, Role: role}, nil
	}

	return Peer{URL: raw, Role: RoleNetwork}, nil
}

func ParsePeers(raw []string) ([]Peer, error) {
	peers := make([]Peer, 0, len(raw))
	for _, r := range raw {
		p, err := ParsePeer(r)
		if err != nil {
			return nil, err
		}
		peers = append(peers, p)
	}
	return peers, nil
}
