package relay

import (
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/journify/internal/messaging"
)

// Peer is one connected foreground process. It becomes active once it has
// said hello.
type Peer struct {
	ConnID   string
	ClientID string
	URL      string
	Active   bool

	send chan messaging.Message
}

// PeerInfo is a snapshot of a peer for listings.
type PeerInfo struct {
	ConnID   string `json:"conn_id"`
	ClientID string `json:"client_id"`
	URL      string `json:"url"`
	Active   bool   `json:"active"`
}

// Hub tracks connected peers. Sends never block: a peer whose buffer is full
// misses the message.
type Hub struct {
	mu    sync.RWMutex
	peers map[string]*Peer
}

func NewHub() *Hub {
	return &Hub{peers: make(map[string]*Peer)}
}

const peerBuffer = 32

// Join registers a connection and returns its outbound queue.
func (h *Hub) Join(connID string) <-chan messaging.Message {
	p := &Peer{ConnID: connID, send: make(chan messaging.Message, peerBuffer)}
	h.mu.Lock()
	h.peers[connID] = p
	h.mu.Unlock()
	return p.send
}

func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.peers[connID]; ok {
		close(p.send)
		delete(h.peers, connID)
	}
}

// Hello marks the connection active.
func (h *Hub) Hello(connID, clientID, url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.peers[connID]
	if !ok {
		return false
	}
	p.ClientID, p.URL, p.Active = clientID, url, true
	return true
}

func (h *Hub) Navigate(connID, url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.peers[connID]
	if !ok {
		return false
	}
	p.URL = url
	return true
}

// Peers returns a snapshot ordered by connection id.
func (h *Hub) Peers() []PeerInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]PeerInfo, 0, len(h.peers))
	for _, p := range h.peers {
		out = append(out, PeerInfo{ConnID: p.ConnID, ClientID: p.ClientID, URL: p.URL, Active: p.Active})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnID < out[j].ConnID })
	return out
}

func (h *Hub) ActiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.peers {
		if p.Active {
			n++
		}
	}
	return n
}

// Broadcast queues m for every peer, or only active ones, and returns how
// many peers it was queued for.
func (h *Hub) Broadcast(m messaging.Message, activeOnly bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.peers {
		if activeOnly && !p.Active {
			continue
		}
		if offer(p, m) {
			n++
		}
	}
	return n
}

// FocusURL sends focus to the first active peer (by connection id) whose url
// equals target or contains it.
func (h *Hub) FocusURL(target string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.peers))
	for id := range h.peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := h.peers[id]
		if !p.Active {
			continue
		}
		if p.URL == target || strings.Contains(p.URL, target) {
			if offer(p, messaging.Focus{URL: target}) {
				return p.ConnID, true
			}
		}
	}
	return "", false
}

func offer(p *Peer, m messaging.Message) bool {
	select {
	case p.send <- m:
		return true
	default:
		return false
	}
}
