// cmd/shop/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	httpin "github.com/HydraRosario/vibeshoes/internal/adapters/in/http"
	appcfg "github.com/HydraRosario/vibeshoes/internal/infra/config"
	shopDI "github.com/HydraRosario/vibeshoes/internal/platform/di/shop"
	shared "github.com/HydraRosario/vibeshoes/internal/platform/di/shared"
)

// atomicHandler swaps the served handler once DI is done.
type atomicHandler struct {
	v atomic.Value // http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func main() {
	ctx := context.Background()

	appcfg.LoadDotEnv()
	cfg := appcfg.Load()

	// Listen right away; only /healthz until DI completes.
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthz)

	switcher := newAtomicHandler(httpin.Wrap(healthMux, cfg.CORSAllowedOrigin))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      switcher,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var infraHolder atomic.Pointer[shared.Infra]
	var shopHolder atomic.Pointer[shopDI.Container]

	shuttingDown := make(chan struct{})

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c

		close(shuttingDown)
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}

		if cont := shopHolder.Swap(nil); cont != nil {
			log.Printf("[boot] closing shop container resources...")
			if err := cont.Close(); err != nil {
				log.Printf("[boot] shop container close error: %v", err)
			}
		}
		if infra := infraHolder.Swap(nil); infra != nil {
			log.Printf("[boot] closing infra resources...")
			if err := infra.Close(); err != nil {
				log.Printf("[boot] infra close error: %v", err)
			}
		}

		close(idleConnsClosed)
	}()

	go func() {
		log.Printf("[boot] listening on :%s (shop, store=%s)", cfg.Port, cfg.DocStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[boot] server error: %v", err)
		}
	}()

	go func() {
		initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		infra, err := shared.NewInfra(initCtx, cfg)
		if err != nil {
			log.Printf("[boot] WARN: shared infra init failed: %v (serving /healthz only)", err)
			return
		}
		infraHolder.Store(infra)

		cont, err := shopDI.NewContainer(initCtx, infra)
		if err != nil {
			_ = infra.Close()
			infraHolder.Store(nil)
			log.Printf("[boot] WARN: shop di init failed: %v (serving /healthz only)", err)
			return
		}
		shopHolder.Store(cont)

		select {
		case <-shuttingDown:
			if c := shopHolder.Swap(nil); c != nil {
				_ = c.Close()
			}
			if in := infraHolder.Swap(nil); in != nil {
				_ = in.Close()
			}
			return
		default:
		}

		fullMux := http.NewServeMux()
		fullMux.HandleFunc("/healthz", healthz)
		shopDI.Register(fullMux, cont)
		log.Printf("[boot] shop routes registered")

		switcher.Store(httpin.Wrap(fullMux, cfg.CORSAllowedOrigin))
		log.Printf("[boot] handler switched to shop router")
	}()

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
