// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик декодирует и валидирует тело запроса, делегирует создание
// учетной записи сервису аутентификации и возвращает данные пользователя
// вместе с парой сессионных токенов.
package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,alphanum,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создает учетную запись с базовой ролью и возвращает пару токенов.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email или login уже заняты"
// @Failure 503 {object} response.ErrorResponse "Хранилище сессий недоступно"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, pair, err := h.auth.Register(r.Context(), req.Email, req.Login, req.Password)
	switch {
	case errors.Is(err, storage.ErrUserAlreadyExists):
		log.Info("user already exists", slog.String("login", req.Login))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("user already exists"))
		return
	case errors.Is(err, storage.ErrBaseRoleNotFound):
		// Базовая роль задается миграцией: ее отсутствие означает
		// неправильно развернутое окружение, а не ошибку запроса
		log.Error("default role is missing, check deployment configuration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("service is misconfigured"))
		return
	case errors.Is(err, services.ErrCacheWriteFailed):
		log.Error("failed to store session tokens", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("failed to store session tokens"))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("user registered", slog.String("login", user.Login))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":      user.ID,
		"email":         user.Email,
		"login":         user.Login,
		"token":         pair.Access.Encoded(),
		"refresh_token": pair.Refresh.Encoded(),
	}))
}
