// Package model содержит доменные сущности сервиса доставки еды.
package model

import (
	"encoding/json"
	"time"
)

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"date"`
}

// Order хранит историю заказов пользователя. OrderData — массив отправок заказов,
// каждая отправка — массив позиций, первым элементом которого идёт маркер даты.
type Order struct {
	Email     string          `json:"email"`
	OrderData json.RawMessage `json:"order_data"`
}

// FoodItem описывает позицию каталога еды.
type FoodItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"CategoryName"`
	Img          string          `json:"img"`
	Options      json.RawMessage `json:"options"`
	Description  string          `json:"description"`
}

// FoodCategory описывает категорию каталога еды.
type FoodCategory struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"CategoryName"`
}

// Catalog — снимок каталога еды, загружаемый один раз при старте процесса
// и далее не изменяемый.
type Catalog struct {
	Items      []FoodItem
	Categories []FoodCategory
}
