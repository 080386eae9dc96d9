package command

import (
	"log/slog"
	"net/http"

	"ServerDesk/internal/lib/api/response"

	"github.com/go-chi/render"
)

func Translate(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("key is required"))
			return
		}
		render.JSON(w, r, response.Ok(handler.Translate(key)))
	}
}
