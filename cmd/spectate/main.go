package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

func main() {
	var (
		url   = flag.String("url", "ws://127.0.0.1:8080/ws", "ws url")
		name  = flag.String("name", "spectate", "client name")
		every = flag.Int("every", 50, "ask for one ROUND per N rounds")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[spectate] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
		EveryRounds:     *every,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s match=%s map=%s %dx%d rounds=%d", w.SessionID, w.MatchID, w.Map.Name, w.Map.Width, w.Map.Height, w.Map.Rounds)

		case protocol.TypeRound:
			var r protocol.RoundMsg
			if err := json.Unmarshal(msg, &r); err != nil {
				continue
			}
			for _, t := range r.Teams {
				logger.Printf("round %d team %s: robots=%d zones=%d anchors=%d ad=%d mn=%d faults=%d",
					r.Round, t.Team, total(t.Population), t.ZonesOwned, t.Anchors, t.Adamantium, t.Mana, t.Faults)
			}

		case protocol.TypeEnd:
			var e protocol.EndMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("END rounds=%d winner=%q reason=%s", e.Rounds, e.Winner, e.Reason)
			return

		case protocol.TypeError:
			var e protocol.ErrorMsg
			_ = json.Unmarshal(msg, &e)
			logger.Fatalf("server error %s: %s", e.Code, e.Message)
		}
	}
}

func total(pop map[string]int) int {
	n := 0
	for _, v := range pop {
		n += v
	}
	return n
}
