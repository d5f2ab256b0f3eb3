// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mmeshcher/delivery-system/internal/model"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserExists возвращается при попытке создать пользователя с уже существующим email.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound возвращается, если у пользователя ещё нет записи заказов.
	ErrOrderNotFound = errors.New("order not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт нового пользователя. Уникальность email гарантируется
// ограничением БД, поэтому гонка двух одновременных регистраций невозможна.
func (r *PostgresRepository) CreateUser(ctx context.Context, name, email string, passwordHash []byte, location string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, location) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, email, passwordHash, location,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя по email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, location, created_at FROM users WHERE email = $1`,
		email,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Location, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, location, created_at FROM users WHERE id = $1`,
		id,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Location, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// AppendOrder добавляет отправку заказа к записи заказов пользователя.
// Запись создаётся при первой отправке; операция атомарна, одновременные
// отправки для одного email не теряют друг друга.
func (r *PostgresRepository) AppendOrder(ctx context.Context, email string, submission []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO orders (email, order_data)
		 VALUES ($1, jsonb_build_array($2::jsonb))
		 ON CONFLICT (email)
		 DO UPDATE SET order_data = orders.order_data || jsonb_build_array($2::jsonb)`,
		email, submission,
	)
	if err != nil {
		return fmt.Errorf("append order: %w", err)
	}
	return nil
}

// GetOrderByEmail возвращает запись заказов пользователя по email.
func (r *PostgresRepository) GetOrderByEmail(ctx context.Context, email string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT email, order_data FROM orders WHERE email = $1`,
		email,
	)

	var o model.Order
	err := row.Scan(&o.Email, &o.OrderData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &o, nil
}

// LoadCatalog загружает каталог еды целиком. Вызывается один раз при старте процесса.
func (r *PostgresRepository) LoadCatalog(ctx context.Context) (*model.Catalog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category_name, img, options, description
		 FROM food_items
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select food items: %w", err)
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		var it model.FoodItem
		if err := rows.Scan(&it.ID, &it.Name, &it.CategoryName, &it.Img, &it.Options, &it.Description); err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	catRows, err := r.pool.Query(ctx,
		`SELECT id, category_name FROM food_categories ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select food categories: %w", err)
	}
	defer catRows.Close()

	var categories []model.FoodCategory
	for catRows.Next() {
		var c model.FoodCategory
		if err := catRows.Scan(&c.ID, &c.CategoryName); err != nil {
			return nil, fmt.Errorf("scan food category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &model.Catalog{Items: items, Categories: categories}, nil
}
