package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

const userColumns = `id, name, gender, birth_date, address, phone, email, password_hash, created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (name, gender, birth_date, address, phone, email, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userColumns
	out, err := scanUser(r.pool.QueryRow(ctx, q,
		u.Name, u.Gender, u.BirthDate, u.Address, u.Phone, strings.ToLower(u.Email), u.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		r.logger.Error("user repo: create", zap.Error(err))
		return nil, err
	}
	r.logger.Info("user repo: created", zap.Int64("id", out.ID))
	return out, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("user repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

// Update writes the non-nil fields of patch in one statement.
func (r *postgresRepo) Update(ctx context.Context, id int64, patch domain.UserPatch) error {
	const q = `
UPDATE users SET
    name = COALESCE($2, name),
    address = COALESCE($3, address),
    phone = COALESCE($4, phone),
    gender = COALESCE($5, gender),
    birth_date = COALESCE($6, birth_date)
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, q, id, patch.Name, patch.Address, patch.Phone, patch.Gender, patch.BirthDate)
	if err != nil {
		r.logger.Error("user repo: update", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Gender, &u.BirthDate, &u.Address, &u.Phone, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
