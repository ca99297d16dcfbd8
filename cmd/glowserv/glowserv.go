// Command glowserv runs a game server: status pings, logins with optional
// encryption and a flat world to walk around in.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-glowstone/config"
	"badc0de.net/pkg/go-glowstone/gameworld"
	"badc0de.net/pkg/go-glowstone/icon"
	"badc0de.net/pkg/go-glowstone/login"
	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/nbt"
	"badc0de.net/pkg/go-glowstone/paths"
	"badc0de.net/pkg/go-glowstone/protocol"
	"badc0de.net/pkg/go-glowstone/secrets"
	"badc0de.net/pkg/go-glowstone/server"
)

// ConfigFile is looked for when -config is not given.
const ConfigFile = "glowstone.toml"

var (
	configPath     string
	listenAddress  = flag.String("listen_address", "", "overrides listen_address from the configuration")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "overrides debug_listen_address from the configuration")
	banner         = flag.Bool("banner", true, "print a banner on startup")
)

func main() {
	paths.SetupFilePathFlag(ConfigFile, "config", &configPath)
	flagutil.Parse()
	defer glog.Flush()

	cfg, err := config.Load(configPath)
	if err != nil {
		glog.Exitf("loading configuration: %v", err)
	}
	if *listenAddress != "" {
		cfg.ListenAddress = *listenAddress
	}
	if *debugWebServer != "" {
		cfg.DebugListenAddress = *debugWebServer
	}
	if *banner {
		fmt.Fprintln(os.Stderr, figure.NewFigure("glowstone", "", true).String())
	}
	raiseFileLimit(cfg.MaxConnections)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gs, err := newGlowServer(cfg)
	if err != nil {
		glog.Exit(err)
	}
	l, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("glowserv listening on %s", l.Addr())
	if err := gs.serve(ctx, l); err != nil {
		glog.Exit(err)
	}
	glog.Infoln("glowserv stopped")
}

// glowServer is everything one running server is made of.
type glowServer struct {
	cfg      config.Config
	srv      *server.Server
	world    *gameworld.Server
	store    *gameworld.ChunkStore
	registry *prometheus.Registry
}

func newGlowServer(cfg config.Config) (*glowServer, error) {
	var keys login.KeyExchanger
	if cfg.Encryption {
		var kp *secrets.KeyPair
		var err error
		if cfg.KeyFile != "" {
			kp, err = secrets.LoadOrGenerate(cfg.KeyFile, cfg.KeyBits)
		} else {
			kp, err = secrets.GenerateKeyPair(cfg.KeyBits)
		}
		if err != nil {
			return nil, errors.Wrap(err, "server key")
		}
		keys = kp
	}

	var favicon string
	if cfg.Favicon != "" {
		var err error
		if favicon, err = icon.Load(cfg.Favicon); err != nil {
			return nil, errors.Wrap(err, "favicon")
		}
	}

	compression, err := nbt.ParseCompression(cfg.WorldCompression)
	if err != nil {
		return nil, err
	}
	store, err := gameworld.NewChunkStore(gameworld.StoreOptions{
		Dir:         cfg.WorldDir,
		Compression: compression,
		CacheTTL:    cfg.ChunkCacheTTL(),
	}, gameworld.NewFlatChunkSource())
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessions := server.NewRegistry()
	world := gameworld.New(gameworld.Options{
		ViewDistance: cfg.ViewDistance,
		MaxPlayers:   cfg.MaxPlayers,
	}, store, sessions)

	lgn, err := login.New(login.Options{
		Encryption: cfg.Encryption,
		Keys:       keys,
		OnJoin:     world.Join,
	})
	if err != nil {
		return nil, err
	}

	srv := server.New(server.Options{
		MOTD:              cfg.MOTD,
		MaxPlayers:        cfg.MaxPlayers,
		Favicon:           favicon,
		MaxConnections:    int64(cfg.MaxConnections),
		KeepAliveInterval: cfg.KeepAlive(),
		Session: server.SessionOptions{
			Cipher:       cfg.Cipher,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
			QueueSize:    cfg.OutboundQueue,
		},
	}, sessions, server.NewMetrics(reg), mergeHandlers(lgn.Handlers(), world.Handlers()))

	return &glowServer{cfg: cfg, srv: srv, world: world, store: store, registry: reg}, nil
}

func mergeHandlers(sets ...map[message.Kind]protocol.Handler) map[message.Kind]protocol.Handler {
	all := map[message.Kind]protocol.Handler{}
	for _, set := range sets {
		for kind, h := range set {
			if _, ok := all[kind]; ok {
				panic(fmt.Sprintf("two handlers for %v", kind))
			}
			all[kind] = h
		}
	}
	return all
}

// serve runs the game listener, and the debug web server if one is
// configured, until ctx is done. The world is saved on the way out.
func (gs *glowServer) serve(ctx context.Context, l net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gs.srv.Serve(ctx, l) })
	if gs.cfg.DebugListenAddress != "" {
		g.Go(func() error { return serveDebug(ctx, gs.cfg.DebugListenAddress, gs.debugHandler()) })
	}
	err := g.Wait()
	if ferr := gs.store.Flush(); ferr != nil {
		glog.Errorf("saving world: %v", ferr)
		if err == nil {
			err = ferr
		}
	}
	return err
}
