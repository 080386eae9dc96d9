package command

import (
	"log/slog"
	"net/http"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/api/response"
	"ServerDesk/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Dispatch runs a chat command received over HTTP. Lines addressed to
// another tenant come back as an empty list.
func Dispatch(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.command")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.CommandRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Debug("bad request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger = logger.With(
			slog.String("command", req.Kind.String()),
			slog.String("channel", req.ChannelID),
		)

		lines := handler.Dispatch(r.Context(), req.Kind, req.TenantID, req.ChannelID, req.ProfileID)
		if lines == nil {
			logger.Debug("malformed command")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Malformed command"))
			return
		}

		logger.Debug("command answered", slog.Int("lines", len(lines)))
		render.JSON(w, r, response.Ok(lines))
	}
}
