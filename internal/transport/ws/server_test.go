package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

func startServer(t *testing.T, queue int) (*Server, string) {
	t.Helper()
	s := NewServer(Config{
		MatchID: "m1",
		Map:     protocol.MapParams{Name: "twin", Width: 24, Height: 16, Rounds: 10},
		Queue:   queue,
	}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string, hello any) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	return conn
}

func readType(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return base.Type, b
}

func hello(every int) protocol.HelloMsg {
	return protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "test", EveryRounds: every}
}

func round(n int) protocol.RoundMsg {
	return protocol.RoundMsg{Type: protocol.TypeRound, ProtocolVersion: protocol.Version, MatchID: "m1", Round: n}
}

func TestServer_StreamsRoundsThenEnd(t *testing.T) {
	s, url := startServer(t, 8)
	conn := dial(t, url, hello(2))

	typ, b := readType(t, conn)
	if typ != protocol.TypeWelcome {
		t.Fatalf("first message %s", typ)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(b, &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.MatchID != "m1" || welcome.SessionID == "" || welcome.Map.Width != 24 {
		t.Fatalf("welcome=%+v", welcome)
	}

	for i := 1; i <= 4; i++ {
		s.Round(round(i))
	}
	s.End(protocol.EndMsg{Type: protocol.TypeEnd, MatchID: "m1", Rounds: 4, Reason: "ROUND_LIMIT"})

	var got []int
	for {
		typ, b := readType(t, conn)
		if typ == protocol.TypeEnd {
			break
		}
		var m protocol.RoundMsg
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("round: %v", err)
		}
		got = append(got, m.Round)
	}
	// every_rounds=2 keeps the even rounds only.
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("rounds=%v", got)
	}
}

func TestServer_SlowSpectatorKeepsNewest(t *testing.T) {
	s, url := startServer(t, 1)
	conn := dial(t, url, hello(0))
	if typ, _ := readType(t, conn); typ != protocol.TypeWelcome {
		t.Fatalf("first message %s", typ)
	}
	// The writer may pick up some rounds as they arrive; whatever it did
	// not write yet collapses into the newest one.
	for i := 1; i <= 50; i++ {
		s.Round(round(i))
	}
	s.End(protocol.EndMsg{Type: protocol.TypeEnd, MatchID: "m1", Rounds: 50, Reason: "ROUND_LIMIT"})
	last := 0
	for {
		typ, b := readType(t, conn)
		if typ == protocol.TypeEnd {
			break
		}
		var m protocol.RoundMsg
		_ = json.Unmarshal(b, &m)
		if m.Round <= last {
			t.Fatalf("round %d after %d", m.Round, last)
		}
		last = m.Round
	}
	if last != 50 {
		t.Fatalf("last round delivered=%d want 50", last)
	}
}

func TestServer_LateJoinerGetsLatestRound(t *testing.T) {
	s, url := startServer(t, 8)
	s.Round(round(7))
	conn := dial(t, url, hello(0))
	if typ, _ := readType(t, conn); typ != protocol.TypeWelcome {
		t.Fatalf("first message %s", typ)
	}
	typ, b := readType(t, conn)
	var m protocol.RoundMsg
	_ = json.Unmarshal(b, &m)
	if typ != protocol.TypeRound || m.Round != 7 {
		t.Fatalf("got %s round %d", typ, m.Round)
	}
	if n := s.Clients(); n != 1 {
		t.Fatalf("clients=%d want 1", n)
	}
	_ = conn.Close()
	deadline := time.Now().Add(3 * time.Second)
	for s.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("spectator not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_RejectsBadHello(t *testing.T) {
	_, url := startServer(t, 8)
	cases := map[string]struct {
		hello any
		code  string
	}{
		"wrong type":    {map[string]string{"type": "ROUND"}, protocol.ErrProtoBadRequest},
		"wrong version": {protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: "0.1"}, protocol.ErrProtoVersion},
	}
	for name, c := range cases {
		conn := dial(t, url, c.hello)
		typ, b := readType(t, conn)
		var e protocol.ErrorMsg
		_ = json.Unmarshal(b, &e)
		if typ != protocol.TypeError || e.Code != c.code {
			t.Fatalf("%s: got %s code=%s", name, typ, e.Code)
		}
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:5000": true,
		"[::1]:80":       true,
		"10.0.0.2:80":    false,
		"garbage":        false,
	} {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("%s: got %v", addr, got)
		}
	}
}
