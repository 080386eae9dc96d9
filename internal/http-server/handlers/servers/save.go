package servers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/api/response"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Save(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var profile entity.ServerProfile
		if err := render.Bind(r, &profile); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		if err := handler.SaveServer(r.Context(), profile); err != nil {
			logger.Error("failed to save server", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to save server: %v", err)))
			return
		}

		logger.Info("server saved", slog.String("profile", profile.ProfileID))
		render.JSON(w, r, response.Ok(profile))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.servers"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		profileID := chi.URLParam(r, "profileID")
		if err := handler.DeleteServer(r.Context(), profileID); err != nil {
			failed(w, r, logger, "delete server", err)
			return
		}

		logger.Info("server deleted", slog.String("profile", profileID))
		render.JSON(w, r, response.Ok(profileID))
	}
}

// SetRuntime records the host-observed status of one server.
func SetRuntime(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.servers"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var runtime entity.ServerRuntime
		if err := render.Bind(r, &runtime); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		profileID := chi.URLParam(r, "profileID")
		if err := handler.SetRuntime(r.Context(), profileID, runtime); err != nil {
			failed(w, r, logger, "set runtime", err)
			return
		}

		render.JSON(w, r, response.Ok(runtime))
	}
}

func failed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, action string, err error) {
	if errors.Is(err, registry.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Server profile not found"))
		return
	}
	logger.Error("failed to "+action, sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(fmt.Sprintf("Failed to %s: %v", action, err)))
}
