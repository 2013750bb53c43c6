package repo

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound   = merry.New("not found").WithHTTPCode(http.StatusNotFound)
	ErrUserExists = merry.New("user already exists").WithHTTPCode(http.StatusConflict)
)

type UserRepository interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// Calculation is a saved element calculation. Input and results are kept
// as JSON documents so the table does not follow every field change.
type Calculation struct {
	ID          uuid.UUID `db:"id"`
	UserID      int       `db:"user_id"`
	Name        string    `db:"name"`
	ElementType string    `db:"element_type"`
	Compliant   bool      `db:"compliant"`
	Input       string    `db:"input"`
	Results     string    `db:"results"`
	CreatedAt   time.Time `db:"created_at"`
}

type CalculationRepository interface {
	SaveCalculation(ctx context.Context, c *Calculation) error
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
	GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error)
	DeleteCalculation(ctx context.Context, userID int, id uuid.UUID) error
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         SERIAL PRIMARY KEY,
	login      TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL,
	password   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS calculations (
	id           UUID PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         TEXT NOT NULL DEFAULT '',
	element_type TEXT NOT NULL,
	compliant    BOOLEAN NOT NULL,
	input        JSONB NOT NULL,
	results      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS calculations_user_created ON calculations (user_id, created_at DESC);
`

// Open connects to PostgreSQL. sslmode=require is added when the URL does
// not choose a mode itself.
func Open(ctx context.Context, connStr string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", withSSLMode(connStr))
	if err != nil {
		return nil, merry.Prepend(err, "connect to database")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return merry.Wrap(err)
}

func (r *Postgres) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowxContext(ctx, query, login, email, passwordHash).Scan(&id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return 0, ErrUserExists.Here()
	}
	return id, merry.Wrap(err)
}

// GetByLogin returns id 0 and an empty hash for an unknown login.
func (r *Postgres) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var row struct {
		ID       int    `db:"id"`
		Password string `db:"password"`
	}
	err := r.db.GetContext(ctx, &row, "SELECT id, password FROM users WHERE login=$1", login)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", merry.Wrap(err)
	}
	return row.ID, row.Password, nil
}

func (r *Postgres) SaveCalculation(ctx context.Context, c *Calculation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `INSERT INTO calculations (id, user_id, name, element_type, compliant, input, results)
		VALUES (:id, :user_id, :name, :element_type, :compliant, :input, :results)
		RETURNING created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, c)
	if err != nil {
		return merry.Wrap(err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&c.CreatedAt); err != nil {
			return merry.Wrap(err)
		}
	}
	return merry.Wrap(rows.Err())
}

func (r *Postgres) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	var out []Calculation
	query := `SELECT id, user_id, name, element_type, compliant, input, results, created_at
		FROM calculations WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, query, userID, limit); err != nil {
		return nil, merry.Wrap(err)
	}
	return out, nil
}

func (r *Postgres) GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error) {
	var c Calculation
	query := `SELECT id, user_id, name, element_type, compliant, input, results, created_at
		FROM calculations WHERE id=$1 AND user_id=$2`
	err := r.db.GetContext(ctx, &c, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound.Here()
	}
	return c, merry.Wrap(err)
}

func (r *Postgres) DeleteCalculation(ctx context.Context, userID int, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM calculations WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return merry.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return merry.Wrap(err)
	}
	if n == 0 {
		return ErrNotFound.Here()
	}
	return nil
}
