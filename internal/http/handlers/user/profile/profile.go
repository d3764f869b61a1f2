// Package profile реализует HTTP-обработчик профиля текущего пользователя.
//
// Идентификатор пользователя берется из контекста запроса, куда его
// помещает JWT middleware. Ответ включает сервисную запись и роль.
package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// Handler обрабатывает HTTP-запросы профиля.
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
// @Summary Профиль текущего пользователя
// @Description Возвращает данные пользователя вместе с сервисной записью и ролью.
// @Tags User
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

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

	user, err := h.auth.Profile(r.Context(), uid)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		log.Info("user not found", slog.String("uid", uid.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	data := map[string]any{
		"user_uid":        user.ID,
		"email":           user.Email,
		"login":           user.Login,
		"full_name":       user.FullName,
		"profile_picture": user.ProfilePicture,
		"bio":             user.Bio,
		"phone_number":    user.PhoneNumber,
		"birthday":        user.Birthday,
		"created_at":      user.CreatedAt,
	}
	if user.Service != nil {
		data["active"] = user.Service.Active
		data["verified"] = user.Service.Verified
		if user.Service.Role != nil {
			data["role"] = user.Service.Role.Name
			data["access_level"] = user.Service.Role.AccessLevel.String()
		}
	}

	log.Info("profile loaded", slog.String("login", user.Login))
	render.JSON(w, r, response.OKWithData(data))
}
