// Package ws streams round summaries of a running match to websocket
// spectators. Send HELLO, receive WELCOME, then ROUND messages until END.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

type Config struct {
	MatchID string
	Map     protocol.MapParams
	// AllowRemote accepts spectators from non-loopback addresses.
	AllowRemote bool
	// Queue is the per-spectator buffer of pending ROUND messages. A slow
	// spectator loses the oldest pending round, never the newest.
	Queue int
}

type Server struct {
	cfg Config
	log *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	last    []byte // latest ROUND
	end     []byte // END once the match is over
}

type client struct {
	id    string
	every int
	out   chan []byte
	endCh chan []byte
}

func NewServer(cfg Config, logger *log.Logger) *Server {
	if cfg.Queue <= 0 {
		cfg.Queue = 8
	}
	return &Server{
		cfg:     cfg,
		log:     logger,
		clients: map[string]*client{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Clients returns the number of connected spectators.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Round fans a round summary out to every spectator without blocking.
func (s *Server) Round(m protocol.RoundMsg) {
	b, err := json.Marshal(m)
	if err != nil {
		s.logf("marshal round %d: %v", m.Round, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = b
	for _, c := range s.clients {
		if c.every > 1 && m.Round%c.every != 0 {
			continue
		}
		sendLatest(c.out, b)
	}
}

func (s *Server) End(m protocol.EndMsg) {
	b, err := json.Marshal(m)
	if err != nil {
		s.logf("marshal end: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end = b
	for _, c := range s.clients {
		sendLatest(c.endCh, b)
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.cfg.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := s.handshake(conn)
		if c == nil {
			return
		}
		defer s.remove(c.id)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					if err := write(conn, b); err != nil {
						return
					}
				case b := <-c.endCh:
					// Rounds queued before the end go out first.
					for drained := false; !drained; {
						select {
						case rb := <-c.out:
							if err := write(conn, rb); err != nil {
								return
							}
						default:
							drained = true
						}
					}
					if err := write(conn, b); err != nil {
						return
					}
					_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over"), time.Now().Add(time.Second))
					return
				}
			}
		}()

		// Reader loop: spectators send nothing after HELLO but the read
		// notices a closed connection.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		<-ctx.Done()
		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeDone:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) *client {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}
	_ = conn.SetReadDeadline(time.Time{})

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		reject(conn, protocol.ErrProtoBadRequest, "expected HELLO")
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		reject(conn, protocol.ErrProtoBadRequest, "bad HELLO")
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		reject(conn, protocol.ErrProtoVersion, "bad protocol_version")
		return nil
	}

	c := &client{
		id:    uuid.NewString(),
		every: hello.EveryRounds,
		out:   make(chan []byte, s.cfg.Queue),
		endCh: make(chan []byte, 1),
	}
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       c.id,
		MatchID:         s.cfg.MatchID,
		Map:             s.cfg.Map,
	}

	// Register before WELCOME so no round falls between the two.
	s.mu.Lock()
	s.clients[c.id] = c
	if s.last != nil {
		sendLatest(c.out, s.last)
	}
	if s.end != nil {
		sendLatest(c.endCh, s.end)
	}
	s.mu.Unlock()

	if err := writeJSON(conn, welcome); err != nil {
		s.remove(c.id)
		return nil
	}
	name := hello.ClientName
	if name == "" {
		name = "spectator"
	}
	s.logf("spectator %s (%s) joined match %s", c.id, name, s.cfg.MatchID)
	return c
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func reject(conn *websocket.Conn, code, message string) {
	_ = writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return write(conn, b)
}

func write(conn *websocket.Conn, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// sendLatest enqueues b, dropping the oldest pending message when full.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
