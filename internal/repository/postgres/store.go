// Package postgres stores records in PostgreSQL. Users live in a relational
// table; every other record is a JSONB document with its scoping columns
// (user_id, project_id, recorded_at) lifted out for filtering.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Migrate creates the tables when they do not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Collection is a domain.Collection stored in one document table
type Collection[T domain.Record] struct {
	db     *sqlx.DB
	table  string
	logger *slog.Logger
}

var _ domain.Collection[domain.Income] = (*Collection[domain.Income])(nil)

// NewCollection binds a collection to table. table must be one of the tables
// created by Migrate.
func NewCollection[T domain.Record](db *sqlx.DB, table string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{db: db, table: table, logger: logger}
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.table, err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, project_id, recorded_at, doc) VALUES ($1, $2, $3, $4, $5)`, c.table)
	_, err = c.db.ExecContext(ctx, query, rec.RecordID(), rec.OwnerID(), rec.ProjectRef(), rec.RecordedAt(), string(doc))
	if isUniqueViolation(err) {
		return fmt.Errorf("insert %s %s: %w", c.table, rec.RecordID(), domain.ErrConflict)
	}
	if err != nil {
		c.logger.Error("insert failed",
			slog.String("table", c.table),
			slog.String("id", rec.RecordID()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	return nil
}

func (c *Collection[T]) Find(ctx context.Context, q domain.Query) ([]T, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []interface{}{q.OwnerID}
	)
	if q.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, q.ProjectID)
	}
	if !q.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, q.Since)
	}
	args = append(args, q.Cap())

	query := c.db.Rebind(fmt.Sprintf(`SELECT doc FROM %s WHERE %s ORDER BY seq LIMIT ?`, c.table, strings.Join(where, " AND ")))

	var docs [][]byte
	if err := c.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.table, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var (
		rec T
		doc []byte
	)
	err := c.db.GetContext(ctx, &doc, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, domain.ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", c.table, err)
	}
	if err := json.Unmarshal(doc, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", c.table, err)
	}
	return rec, nil
}

func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.table, err)
	}
	query := fmt.Sprintf(`UPDATE %s SET project_id = $2, recorded_at = $3, doc = $4 WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, rec.RecordID(), rec.ProjectRef(), rec.RecordedAt(), string(doc))
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.table, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Users implements domain.UserRepository on the users table
type Users struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ domain.UserRepository = (*Users)(nil)

func NewUsers(db *sqlx.DB, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{db: db, logger: logger}
}

const userColumns = `id, full_name, phone_number, email, company_name, company_number, username, password_hash, created_at`

func (u *Users) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (:id, :full_name, :phone_number, :email, :company_name, :company_number, :username, :password_hash, :created_at)`

	_, err := u.db.NamedExecContext(ctx, query, user)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		u.logger.Error("failed to create user",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *Users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (u *Users) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE username = $1 OR (email <> '' AND email = $1)
		ORDER BY (username = $1) DESC
		LIMIT 1`
	return u.getOne(ctx, query, identifier)
}

func (u *Users) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	user := &domain.User{}
	err := u.db.GetContext(ctx, user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (u *Users) Exists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR ($2 <> '' AND email = $2))`
	if err := u.db.GetContext(ctx, &exists, query, username, email); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// NewStore returns a domain.Store backed by db. Call Migrate first.
func NewStore(db *sqlx.DB, logger *slog.Logger) domain.Store {
	return domain.Store{
		Users:    NewUsers(db, logger),
		Projects: NewCollection[domain.Project](db, "projects", logger),
		Workers:  NewCollection[domain.Worker](db, "workers", logger),
		Expenses: NewCollection[domain.Expense](db, "expenses", logger),
		Incomes:  NewCollection[domain.Income](db, "incomes", logger),
		WorkLogs: NewCollection[domain.WorkLog](db, "workdays", logger),
	}
}
