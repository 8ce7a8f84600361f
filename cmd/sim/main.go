package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/agent"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	bottuning "github.com/andrewgopher/battlecode23-scaffold/internal/bot/tuning"
	"github.com/andrewgopher/battlecode23-scaffold/internal/persistence/indexdb"
	persistlog "github.com/andrewgopher/battlecode23-scaffold/internal/persistence/log"
	"github.com/andrewgopher/battlecode23-scaffold/internal/persistence/snapshot"
	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/arena"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/metrics"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/tuning"
	"github.com/andrewgopher/battlecode23-scaffold/internal/transport/ws"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:8080", "http listen address for /ws and /metrics (empty to disable)")
		mapPath     = flag.String("map", "./configs/maps/twin.yaml", "map file")
		tuningPath  = flag.String("tuning", "./configs/tuning.yaml", "agent tuning.yaml (empty for defaults)")
		rulesPath   = flag.String("rules", "./configs/rules.yaml", "host rules.yaml (empty for defaults)")
		rounds      = flag.Int("rounds", 0, "override the round limit")
		tickRate    = flag.Int("tick_rate", -1, "override rounds per second (0 runs flat out)")
		seed        = flag.Int64("seed", 0, "override the agent seed")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite round index")
		allowRemote = flag.Bool("allow_remote", false, "accept spectators from non-loopback addresses")
		linger      = flag.Duration("linger", 0, "keep serving spectators this long after the match ends")
		quietAgents = flag.Bool("quiet_agents", false, "drop agent fault logs")
		snapEvery   = flag.Int("snapshot_every", 500, "write a match snapshot every N rounds (0: final only)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sim] ", log.LstdFlags|log.Lmicroseconds)

	m, err := arena.LoadMap(*mapPath)
	if err != nil {
		logger.Fatalf("load map: %v", err)
	}
	bt, err := bottuning.Load(strings.TrimSpace(*tuningPath))
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	if *seed != 0 {
		bt.Seed = *seed
	}
	rules, err := tuning.Load(strings.TrimSpace(*rulesPath))
	if err != nil {
		logger.Fatalf("load rules: %v", err)
	}
	if *rounds > 0 {
		rules.Rounds = *rounds
	}
	if *tickRate >= 0 {
		rules.TickRateHz = *tickRate
	}

	matchID := uuid.NewString()
	matchDir := filepath.Join(*dataDir, "matches")

	roundLog := persistlog.NewRoundLogger(matchDir, matchID)
	defer func() {
		if err := roundLog.Close(); err != nil {
			logger.Printf("close round log: %v", err)
		}
		if n, err := roundLog.Failures(); n > 0 {
			logger.Printf("round log: %d writes failed, first: %v", n, err)
		}
	}()
	sinks := []arena.Sink{roundLog, metrics.New(nil)}

	if !*disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer func() {
			st := idx.Stats()
			if st.DropRoundTotal+st.DropEndTotal+st.WriteFailTotal > 0 {
				logger.Printf("index: dropped=%d write_failures=%d", st.DropRoundTotal+st.DropEndTotal, st.WriteFailTotal)
			}
			_ = idx.Close()
		}()
		if err := idx.UpsertConfig("rules", rules); err != nil {
			logger.Printf("index: upsert rules: %v", err)
		}
		if err := idx.UpsertConfig("tuning", bt); err != nil {
			logger.Printf("index: upsert tuning: %v", err)
		}
		idx.RecordMatch(matchID, m.Name, bt.Seed)
		sinks = append(sinks, idx)
	}

	spectators := ws.NewServer(ws.Config{
		MatchID: matchID,
		Map: protocol.MapParams{
			Name:   m.Name,
			Width:  m.Width,
			Height: m.Height,
			Rounds: rules.Rounds,
			Seed:   bt.Seed,
		},
		AllowRemote: *allowRemote,
	}, logger)
	sinks = append(sinks, spectators)

	snaps := &snapshotSink{every: *snapEvery, ch: make(chan snapshot.SnapshotV1, 2), logger: logger}
	sinks = append(sinks, snaps)

	agentLog := log.New(os.Stdout, "[agent] ", log.LstdFlags|log.Lmicroseconds)
	if *quietAgents {
		agentLog = nil
	}
	w, err := arena.New(m, arena.Config{
		MatchID: matchID,
		Seed:    bt.Seed,
		Rules:   rules,
		Sinks:   sinks,
		Logger:  logger,
		Spawn: func(self host.Self) arena.Runner {
			return agent.New(self, bt, agentLog)
		},
	})
	if err != nil {
		logger.Fatalf("arena: %v", err)
	}
	snaps.w = w
	logger.Printf("match %s on %s (%dx%d) for %d rounds", matchID, m.Name, m.Width, m.Height, rules.Rounds)

	ctx, cancel := signalContext()
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	snapDir := filepath.Join(matchDir, "snapshots")
	snapDone := make(chan struct{})
	go func() {
		defer close(snapDone)
		for snap := range snaps.ch {
			path := filepath.Join(snapDir, fmt.Sprintf("%s-%d.snap.zst", matchID, snap.Header.Round))
			if err := snapshot.WriteSnapshot(path, snap); err != nil {
				logger.Printf("snapshot write: %v", err)
			}
		}
	}()

	matchDone := make(chan struct{})
	g.Go(func() error {
		defer close(matchDone)
		if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("match: %w", err)
		}
		return nil
	})

	if *addr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(200)
			_, _ = fmt.Fprintf(rw, "ok spectators=%d\n", spectators.Clients())
		})
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/ws", spectators.Handler())

		srv := &http.Server{
			Addr:              *addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Printf("listening on %s", *addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-matchDone:
				if *linger > 0 {
					select {
					case <-gctx.Done():
					case <-time.After(*linger):
					}
				}
			}
			ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel2()
			return srv.Shutdown(ctx2)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Printf("stopped: %v", err)
	}
	close(snaps.ch)
	<-snapDone
	final := filepath.Join(snapDir, matchID+"-final.snap.zst")
	if err := snapshot.WriteSnapshot(final, w.Snapshot()); err != nil {
		logger.Printf("final snapshot: %v", err)
	}
	winner := "none"
	if w.Winner() != host.Neutral {
		winner = w.Winner().String()
	}
	logger.Printf("match %s finished at round %d, winner=%s, log=%s", matchID, w.Round(), winner, matchDir)
}

// snapshotSink hands a copy of the world to the snapshot writer every N
// rounds. It runs on the world goroutine, so the copy is consistent; a busy
// writer skips the snapshot.
type snapshotSink struct {
	w      *arena.World
	every  int
	ch     chan snapshot.SnapshotV1
	logger *log.Logger
}

func (s *snapshotSink) Round(m protocol.RoundMsg) {
	if s.w == nil || s.every <= 0 || m.Round%s.every != 0 {
		return
	}
	select {
	case s.ch <- s.w.Snapshot():
	default:
		s.logger.Printf("snapshot writer busy; skipped round %d", m.Round)
	}
}

func (s *snapshotSink) End(protocol.EndMsg) {}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
