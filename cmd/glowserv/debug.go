package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/trace"
)

func (gs *glowServer) debugHandler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gs.registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		fmt.Fprintf(w, "sessions: %d\n", gs.srv.Registry().Len())
		fmt.Fprintf(w, "cached chunks: %d\n", gs.store.Cached())
	})
	r.HandleFunc("/debug/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gs.srv.Status())
	})
	r.HandleFunc("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
		for _, s := range gs.srv.Registry().Sessions() {
			fmt.Fprintln(w, s)
		}
	})
	r.HandleFunc("/debug/players", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range gs.world.Players() {
			pos := p.Position()
			fmt.Fprintf(w, "%d %s %.2f,%.2f,%.2f chunk %d,%d\n",
				p.EntityID, p.Identity.Name, pos.X, pos.Y, pos.Z, pos.ChunkX(), pos.ChunkZ())
		}
	}).Methods(http.MethodGet)
	r.HandleFunc("/debug/requests", trace.Traces)
	r.HandleFunc("/debug/events", trace.Events)
	return handlers.CombinedLoggingHandler(os.Stderr, r)
}

func serveDebug(ctx context.Context, addr string, h http.Handler) error {
	s := &http.Server{Addr: addr, Handler: h}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(shutdownCtx)
	}()
	glog.Infof("debug web server listening on %s", addr)
	if err := s.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
