package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"atrium/config"
	"atrium/delayqueue"
	"atrium/dispatch"
	"atrium/logging"
	"atrium/metrics"
	"atrium/objectgraph"
	"atrium/perm"
	"atrium/resolver"
	"atrium/script"
	"atrium/session"
	"atrium/store"
	"atrium/verbtable"
)

// world bundles every collaborator serve wires together — the
// goroutine-shared state one running process needs, grounded on the
// teacher's Server struct (server/server.go) minus the pieces this
// rebuild's components own themselves (scheduler state lives in
// delayqueue, connection bookkeeping in session.Table).
type world struct {
	cfg        *config.Config
	store      *store.Store
	graph      *objectgraph.Graph
	resolver   *resolver.Resolver
	verbtable  *verbtable.Table
	sessions   *session.Table
	queue      *delayqueue.Queue
	runtime    *script.Runtime
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics
}

func newWorld(cfg *config.Config) (*world, error) {
	var s *store.Store
	if f, err := os.Open(cfg.DBPath); err == nil {
		defer f.Close()
		s, err = store.LoadSnapshot(f)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", cfg.DBPath, err)
		}
		logging.Log().Info("loaded world snapshot", "path", cfg.DBPath)
	} else {
		s = store.New()
		logging.Log().Info("starting with an empty world", "path", cfg.DBPath)
	}

	g := objectgraph.New(s)
	res := resolver.New(g, s)
	vt := verbtable.New(g, s)
	sessions := session.New()

	var q *delayqueue.Queue
	if cfg.DelayQueue.Enabled {
		q = delayqueue.New()
	}

	systemObjectID := findSystemObjectID(s)

	rt := script.New(g, s, res, vt, sessions, q, systemObjectID, script.Config{
		Timeout:  cfg.Script.Timeout,
		MaxDepth: cfg.Script.MaxDepth,
	})
	d := dispatch.New(g, s, vt, res, rt, systemObjectID)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	return &world{
		cfg: cfg, store: s, graph: g, resolver: res, verbtable: vt,
		sessions: sessions, queue: q, runtime: rt, dispatcher: d, metrics: m,
	}, nil
}

// findSystemObjectID returns the id of the object carrying the
// isSystemObject instance property, mirroring conformance's buildWorld
// convention for marking the system object (§4.5 candidate target 5).
func findSystemObjectID(s *store.Store) string {
	for _, obj := range s.Objects.FindAll() {
		if v, ok := obj.InstanceProperties["isSystemObject"]; ok && v.Truthy() {
			return obj.ID
		}
	}
	return ""
}

func serveCmd() *cobra.Command {
	var listenPort int
	var checkpointInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the world server and accept connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.ListenPort = listenPort
			}
			logging.Configure(cfg.Logging.Format, cfg.Logging.Level)

			w, err := newWorld(cfg)
			if err != nil {
				return err
			}

			stop := make(chan struct{})
			if w.queue != nil {
				go w.queue.Run(stop)
			}

			if w.metrics != nil {
				go serveMetrics(w.cfg.Metrics.Addr, w)
			}

			if checkpointInterval > 0 {
				go w.checkpointLoop(checkpointInterval, stop)
			}

			listener, err := session.Listen(fmt.Sprintf(":%d", cfg.ListenPort))
			if err != nil {
				return fmt.Errorf("listen on port %d: %w", cfg.ListenPort, err)
			}
			logging.Log().Info("worldd listening", "port", cfg.ListenPort, "db", cfg.DBPath)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sig
				logging.Log().Info("shutdown signal received")
				close(stop)
				listener.Close()
				_ = w.checkpoint()
			}()

			err = listener.Serve(func(tr session.Transport) {
				go w.handleConnection(tr)
			})
			if err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&listenPort, "port", 0, "listen port (overrides config)")
	cmd.Flags().DurationVar(&checkpointInterval, "checkpoint-interval", 0, "periodic snapshot interval (0 disables)")
	return cmd
}

func serveMetrics(addr string, w *world) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", w.metrics.Handler())
	logging.Log().Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Log().Error("metrics server stopped", "error", err)
	}
}

func (w *world) checkpoint() error {
	f, err := os.Create(w.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", w.cfg.DBPath, err)
	}
	defer f.Close()
	if err := w.store.WriteSnapshot(f); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logging.Log().Debug("checkpoint written", "path", w.cfg.DBPath)
	return nil
}

func (w *world) checkpointLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.checkpoint(); err != nil {
				logging.Log().Error("checkpoint failed", "error", err)
			}
		case <-stop:
			return
		}
	}
}

// handleConnection drives one transport's line loop: unauthenticated
// "login NAME PASSWORD" until it succeeds, then dispatched commands
// until the transport closes, grounded on the teacher's
// Connection/ConnectionManager read loop (server/connection.go)
// collapsed to this rebuild's simpler two-state (logged in or not)
// session model (§6's login contract).
func (w *world) handleConnection(tr session.Transport) {
	defer tr.Close()

	var player *store.Object
	for player == nil {
		line, err := tr.ReadLine()
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || !strings.EqualFold(fields[0], "login") {
			tr.WriteLine("expected: login NAME PASSWORD")
			continue
		}
		obj, err := perm.LoginByName(w.store, w.store.Objects, fields[1], fields[2])
		if err != nil {
			tr.WriteLine("login failed")
			continue
		}
		player = obj
		w.sessions.Bind(player.ID, tr)
		if w.metrics != nil {
			w.metrics.SessionsOnline.Inc()
		}
		tr.WriteLine("welcome, " + player.Name)
	}
	defer func() {
		w.sessions.Unbind(player.ID)
		if w.metrics != nil {
			w.metrics.SessionsOnline.Dec()
		}
	}()

	for {
		line, err := tr.ReadLine()
		if err != nil {
			return
		}
		start := time.Now()
		output := w.dispatcher.Dispatch(player, line)
		if w.metrics != nil {
			w.metrics.DispatchTotal.WithLabelValues("ok").Inc()
			w.metrics.ObserveScript("dispatch", time.Since(start), "")
		}
		if output != "" {
			if err := tr.WriteLine(output); err != nil {
				return
			}
		}
	}
}
