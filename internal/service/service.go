// Package service реализует бизнес-логику сервиса доставки еды.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/delivery-system/internal/geocoder"
	"github.com/mmeshcher/delivery-system/internal/model"
	"github.com/mmeshcher/delivery-system/internal/repository"
)

// ErrInvalidCredentials возвращается при неверном email или пароле. Причина
// намеренно не уточняется, чтобы не раскрывать, какое из полей неверно.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, name, email string, passwordHash []byte, location string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	AppendOrder(ctx context.Context, email string, submission []byte) error
	GetOrderByEmail(ctx context.Context, email string) (*model.Order, error)
}

// Service содержит бизнес-логику сервиса доставки еды.
type Service struct {
	repo           Repository
	geocoderClient *geocoder.Client
	catalog        *model.Catalog
}

// NewService создаёт новый сервис с указанным репозиторием, клиентом геокодирования
// и снимком каталога еды.
func NewService(repo Repository, geocoderClient *geocoder.Client, catalog *model.Catalog) *Service {
	return &Service{
		repo:           repo,
		geocoderClient: geocoderClient,
		catalog:        catalog,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser регистрирует нового пользователя и возвращает его идентификатор.
func (s *Service) RegisterUser(ctx context.Context, name, email, password, location string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, name, email, hash, location)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return 0, repository.ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

// AuthenticateUser проверяет email и пароль пользователя и возвращает его идентификатор.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (int64, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return u.ID, nil
}

// GetUserByID возвращает данные пользователя по идентификатору.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

type orderDateMarker struct {
	OrderDate string `json:"Order_date"`
}

// SubmitOrder добавляет отправку заказа в историю пользователя. Отправка
// сохраняется как массив позиций с маркером даты первым элементом.
func (s *Service) SubmitOrder(ctx context.Context, userID int64, orderData []json.RawMessage, orderDate string) error {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	submission := make([]any, 0, len(orderData)+1)
	submission = append(submission, orderDateMarker{OrderDate: orderDate})
	for _, item := range orderData {
		submission = append(submission, item)
	}

	encoded, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	return s.repo.AppendOrder(ctx, u.Email, encoded)
}

// GetOrdersByUser возвращает историю заказов пользователя. Если заказов ещё
// не было, возвращает nil без ошибки.
func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) (*model.Order, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByEmail(ctx, u.Email)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return order, nil
}

// Catalog возвращает снимок каталога еды.
func (s *Service) Catalog() *model.Catalog {
	return s.catalog
}

// ResolveLocation возвращает адрес по координатам через сервис геокодирования.
func (s *Service) ResolveLocation(ctx context.Context, lat, long float64) (string, error) {
	return s.geocoderClient.ReverseGeocode(ctx, lat, long)
}
