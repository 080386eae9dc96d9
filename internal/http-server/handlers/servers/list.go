package servers

import (
	"fmt"
	"log/slog"
	"net/http"

	"ServerDesk/internal/lib/api/response"
	"ServerDesk/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.servers"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("fleet service not available")
			render.JSON(w, r, response.Error("fleet service not available"))
			return
		}

		list, err := handler.ListServers(r.Context())
		if err != nil {
			logger.Error("failed to list servers", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list servers: %v", err)))
			return
		}

		logger.Debug("servers listed", slog.Int("count", len(list)))
		render.JSON(w, r, response.Ok(list))
	}
}
