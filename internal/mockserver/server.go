// Package mockserver imitates the zone feed and radio API locally: an
// engine.io v3 WebSocket endpoint that emits generated scrobbles and the
// latest-history HTTP endpoint.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/config"
	"github.com/zone-feed/nowplaying/internal/mock"
	"github.com/zone-feed/nowplaying/internal/socketio"
)

// EventName is the socket.io event the server emits track updates under.
const EventName = "scrobble"

const (
	handshakePingInterval = 25000
	handshakePingTimeout  = 60000
)

type Server struct {
	cfg         config.MockConfig
	gen         *mock.Generator
	broadcaster *Broadcaster
	registry    *prometheus.Registry

	connections prometheus.Gauge
	emitted     prometheus.Counter
	historyReqs *prometheus.CounterVec
}

// NewServer creates a server that draws tracks from gen.
func NewServer(cfg config.MockConfig, gen *mock.Generator) *Server {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 10
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Server{
		cfg:         cfg,
		gen:         gen,
		broadcaster: NewBroadcaster(),
		registry:    reg,
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "nowplaying",
			Subsystem: "mock",
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		emitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Subsystem: "mock",
			Name:      "scrobbles_emitted_total",
			Help:      "Scrobble events queued to subscribers.",
		}),
		historyReqs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Subsystem: "mock",
			Name:      "history_requests_total",
			Help:      "History requests by response code.",
		}, []string{"code"}),
	}
}

// Broadcaster exposes the connected peers.
func (s *Server) Broadcaster() *Broadcaster { return s.broadcaster }

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/", s.handleWS)
	r.HandleFunc("/sound_zones/{zone}/history_tracks/latest", s.handleHistory).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-API-Version") == "" {
		s.historyReqs.WithLabelValues("400").Inc()
		http.Error(w, "missing X-API-Version header", http.StatusBadRequest)
		return
	}
	zone := mux.Vars(r)["zone"]
	log.Printf("mock: history for zone %s", zone)

	s.historyReqs.WithLabelValues("200").Inc()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.gen.History(s.cfg.HistorySize)); err != nil {
		log.Printf("mock: write history for zone %s: %v", zone, err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("mock: ws upgrade error: %v", err)
		return
	}

	log.Printf("mock: client connected: %s", r.RemoteAddr)
	p := s.broadcaster.add(conn)
	s.connections.Inc()

	open, err := socketio.EncodeOpen(socketio.Handshake{
		SID:          uuid.NewString(),
		Upgrades:     []string{},
		PingInterval: handshakePingInterval,
		PingTimeout:  handshakePingTimeout,
	})
	if err == nil {
		s.broadcaster.sendTo(p, open)
		s.broadcaster.sendTo(p, socketio.EncodeJoin(""))
	}

	go func() {
		defer func() {
			s.broadcaster.remove(p)
			s.connections.Dec()
			log.Printf("mock: client disconnected: %s", r.RemoteAddr)
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.handleFrame(p, string(data))
		}
	}()
}

func (s *Server) handleFrame(p *peer, frame string) {
	if frame == socketio.EncodePing() {
		s.broadcaster.sendTo(p, socketio.EncodePong())
		return
	}
	pkt, err := socketio.Decode(frame)
	if err != nil {
		log.Printf("mock: %v", err)
		return
	}
	msg, ok := pkt.(socketio.Message)
	if !ok {
		return
	}
	switch msg.Subtype {
	case socketio.SocketConnect:
		p.join(msg.Namespace)
		s.broadcaster.sendTo(p, socketio.EncodeJoinAck(msg.Namespace))
		log.Printf("mock: joined %s", msg.Namespace)
	case socketio.SocketDisconnect:
		p.leave(msg.Namespace)
	}
}

// Emit sends sc to every peer joined to zoneID's namespace and returns the
// number of peers reached.
func (s *Server) Emit(zoneID string, sc client.Scrobble) (int, error) {
	return s.emitTo(socketio.ZoneNamespace(zoneID), sc)
}

func (s *Server) emitTo(ns string, sc client.Scrobble) (int, error) {
	frame, err := socketio.EncodeEvent(ns, EventName, map[string]any{"data": sc})
	if err != nil {
		return 0, err
	}
	n := s.broadcaster.Publish(ns, frame)
	s.emitted.Add(float64(n))
	return n, nil
}

// Run emits a fresh track to every joined zone namespace each emit interval
// until ctx is cancelled. A non-positive interval disables emission.
func (s *Server) Run(ctx context.Context) {
	if s.cfg.EmitInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(s.cfg.EmitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, ns := range s.broadcaster.Namespaces() {
				if !strings.HasPrefix(ns, "/sound_zone/") {
					continue
				}
				if _, err := s.emitTo(ns, s.gen.Next()); err != nil {
					log.Printf("mock: emit %s: %v", ns, err)
				}
			}
		}
	}
}

// ListenAndServe serves the routes on host:port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Printf("mock: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
