package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ServerDesk/internal/config"
	"ServerDesk/internal/http-server/handlers/command"
	httperrors "ServerDesk/internal/http-server/handlers/errors"
	"ServerDesk/internal/http-server/handlers/servers"
	"ServerDesk/internal/http-server/middleware/authenticate"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	command.Core
	servers.Core
}

// NewRouter builds the API routes. The command feed authenticates with a
// query token since browsers cannot set headers on websocket upgrades.
func NewRouter(log *slog.Logger, handler Handler, feed *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(httperrors.NotFound(log))
	router.MethodNotAllowed(httperrors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		if feed != nil {
			v1.Get("/feed", func(w http.ResponseWriter, r *http.Request) {
				ws.ServeWs(feed, handler, log, w, r)
			})
		}

		v1.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Use(authenticate.New(log, handler))

			r.Post("/command", command.Dispatch(log, handler))
			r.Get("/translate", command.Translate(log, handler))

			r.Route("/servers", func(r chi.Router) {
				r.Get("/", servers.List(log, handler))
				r.Post("/", servers.Save(log, handler))
				r.Delete("/{profileID}", servers.Delete(log, handler))
				r.Put("/{profileID}/runtime", servers.SetRuntime(log, handler))
			})
		})
	})

	return router
}

// New serves the API until ctx is done, then shuts the server down gracefully.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, feed *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler, feed),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("api server shutdown", sl.Err(err))
		}
	}()

	err = server.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		server.log.Info("api server stopped")
		return nil
	}
	return err
}
