// Package history реализует HTTP-обработчик истории входов пользователя.
package history

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы истории входов.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary История входов
// @Description Возвращает историю входов текущего пользователя, свежие записи первыми.
// @Tags User
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Записи истории входов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/me/logins [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.history"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(uuid.UUID)
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	entries, err := h.auth.LoginHistory(r.Context(), uid)
	if err != nil {
		log.Error("failed to load login history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{
			"id":                e.ID,
			"social_network_id": e.SocialNetworkID,
			"created_at":        e.CreatedAt,
		})
	}

	log.Info("login history loaded", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"logins": items,
	}))
}
