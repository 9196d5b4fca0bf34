package mockserver

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type peer struct {
	conn *websocket.Conn
	send chan string

	mu         sync.Mutex
	namespaces map[string]bool
}

func newPeer(conn *websocket.Conn) *peer {
	p := &peer{
		conn:       conn,
		send:       make(chan string, 64),
		namespaces: make(map[string]bool),
	}
	go p.writePump()
	return p
}

func (p *peer) writePump() {
	defer p.conn.Close()
	for frame := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
	}
}

func (p *peer) join(ns string) {
	p.mu.Lock()
	p.namespaces[ns] = true
	p.mu.Unlock()
}

func (p *peer) leave(ns string) {
	p.mu.Lock()
	delete(p.namespaces, ns)
	p.mu.Unlock()
}

func (p *peer) joined(ns string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.namespaces[ns]
}

// Broadcaster fans frames out to connected peers by namespace.
type Broadcaster struct {
	mu    sync.RWMutex
	peers map[*peer]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{peers: make(map[*peer]bool)}
}

func (b *Broadcaster) add(conn *websocket.Conn) *peer {
	p := newPeer(conn)
	b.mu.Lock()
	b.peers[p] = true
	b.mu.Unlock()
	return p
}

func (b *Broadcaster) remove(p *peer) {
	b.mu.Lock()
	if _, ok := b.peers[p]; ok {
		delete(b.peers, p)
		close(p.send)
	}
	b.mu.Unlock()
}

// sendTo queues frame for one peer. It reports false if the peer was too
// slow and has been dropped.
func (b *Broadcaster) sendTo(p *peer, frame string) bool {
	b.mu.RLock()
	if _, ok := b.peers[p]; !ok {
		b.mu.RUnlock()
		return false
	}
	sent := true
	select {
	case p.send <- frame:
	default:
		sent = false
	}
	b.mu.RUnlock()
	if !sent {
		log.Printf("mock: peer too slow, disconnecting")
		b.remove(p)
	}
	return sent
}

// Publish sends frame to every peer that joined ns and returns how many
// peers it was queued for.
func (b *Broadcaster) Publish(ns, frame string) int {
	b.mu.RLock()
	targets := make([]*peer, 0, len(b.peers))
	for p := range b.peers {
		if p.joined(ns) {
			targets = append(targets, p)
		}
	}
	b.mu.RUnlock()

	n := 0
	for _, p := range targets {
		if b.sendTo(p, frame) {
			n++
		}
	}
	return n
}

// Namespaces lists every namespace with at least one peer.
func (b *Broadcaster) Namespaces() []string {
	seen := make(map[string]bool)
	b.mu.RLock()
	for p := range b.peers {
		p.mu.Lock()
		for ns := range p.namespaces {
			seen[ns] = true
		}
		p.mu.Unlock()
	}
	b.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	return out
}

// PeerCount returns the number of connected peers.
func (b *Broadcaster) PeerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.peers)
}
