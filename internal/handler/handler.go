// Package handler содержит HTTP-обработчики API сервиса доставки еды.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/delivery-system/internal/middleware"
	"github.com/mmeshcher/delivery-system/internal/model"
	"github.com/mmeshcher/delivery-system/internal/repository"
	"github.com/mmeshcher/delivery-system/internal/service"
	"github.com/mmeshcher/delivery-system/internal/validation"
)

const serverErrorMessage = "Server Error"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, name, email, password, location string) (int64, error)
	AuthenticateUser(ctx context.Context, email, password string) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	SubmitOrder(ctx context.Context, userID int64, orderData []json.RawMessage, orderDate string) error
	GetOrdersByUser(ctx context.Context, userID int64) (*model.Order, error)
	Catalog() *model.Catalog
	ResolveLocation(ctx context.Context, lat, long float64) (string, error)
}

// Handler реализует HTTP-обработчики API сервиса доставки еды.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	allowedOrigin  string
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, allowedOrigin string) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		allowedOrigin:  allowedOrigin,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrs []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": fieldErrs})
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Location string `json:"location" validate:"required"`
}

type authTokenResponse struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"authToken"`
}

// CreateUser обрабатывает регистрацию нового пользователя.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrs := validation.Check(req); len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	userID, err := h.service.RegisterUser(r.Context(), req.Name, req.Email, req.Password, req.Location)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	token, err := h.authMiddleware.IssueToken(userID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, authTokenResponse{Success: true, AuthToken: token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login выполняет аутентификацию пользователя и выпуск токена.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrs := validation.Check(req); len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	userID, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Try logging in with correct credentials")
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	token, err := h.authMiddleware.IssueToken(userID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, authTokenResponse{Success: true, AuthToken: token})
}

// GetUser возвращает данные текущего пользователя без хеша пароля.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("get user error", zap.Error(err), zap.Int64("userID", userID))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type latLong struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

type locationRequest struct {
	LatLong latLong `json:"latlong"`
}

// GetLocation возвращает адрес по координатам через сервис геокодирования.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location, err := h.service.ResolveLocation(r.Context(), req.LatLong.Lat, req.LatLong.Long)
	if err != nil {
		h.logger.Error("resolve location error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"location": location})
}

// FoodData возвращает каталог еды: массив позиций и массив категорий.
func (h *Handler) FoodData(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.Catalog()
	writeJSON(w, http.StatusOK, [2]any{catalog.Items, catalog.Categories})
}

type orderRequest struct {
	OrderData []json.RawMessage `json:"order_data" validate:"required,min=1"`
	OrderDate string            `json:"order_date" validate:"required"`
}

// OrderData добавляет отправку заказа в историю текущего пользователя.
func (h *Handler) OrderData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fieldErrs := validation.Check(req); len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	if err := h.service.SubmitOrder(r.Context(), userID, req.OrderData, req.OrderDate); err != nil {
		h.logger.Error("submit order error", zap.Error(err), zap.Int64("userID", userID))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MyOrderData возвращает историю заказов текущего пользователя. Отсутствие
// заказов не является ошибкой: в ответе будет null.
func (h *Handler) MyOrderData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	order, err := h.service.GetOrdersByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("get orders error", zap.Error(err), zap.Int64("userID", userID))
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orderData": order})
}
