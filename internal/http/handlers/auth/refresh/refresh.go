// Package refresh реализует HTTP-обработчик ротации сессионных токенов.
package refresh

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

// Request — структура входных данных для ротации токенов.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required,min=20"`
}

// Handler обрабатывает HTTP-запросы ротации токенов.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Ротация токенов
// @Description Меняет валидный refresh-токен на новую пару токенов. Старый токен отзывается.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Действующий refresh-токен"
// @Success 200 {object} response.Response "Новая пара токенов"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Токен недействителен или отозван"
// @Failure 503 {object} response.ErrorResponse "Хранилище сессий недоступно"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenInvalid),
		errors.Is(err, services.ErrRefreshTokenRevoked):
		log.Info("refresh token rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	case errors.Is(err, services.ErrCacheWriteFailed):
		log.Error("failed to store session tokens", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("failed to store session tokens"))
		return
	case err != nil:
		log.Error("token refresh failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("tokens rotated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":         pair.Access.Encoded(),
		"refresh_token": pair.Refresh.Encoded(),
	}))
}
