package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// ErrSessionNotFound сессия проверки не найдена
var ErrSessionNotFound = errors.New("session not found")

const resultsSchema = `
create table if not exists grading_results (
	session_id text    not null,
	position   integer not null,
	filename   text    not null,
	score      integer,
	total      integer,
	percentage double precision,
	error      text,
	error_code text,
	created_at timestamptz not null default now(),
	primary key (session_id, position)
)`

// PostgresResultStore хранит результаты проверки в Postgres
type PostgresResultStore struct{ DB *sql.DB }

// OpenPostgres открывает пул соединений через драйвер pgx
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// NewPostgresResultStore создаёт хранилище и таблицу результатов, если её нет
func NewPostgresResultStore(ctx context.Context, db *sql.DB) (*PostgresResultStore, error) {
	if _, err := db.ExecContext(ctx, resultsSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresResultStore{DB: db}, nil
}

// SaveResults перезаписывает результаты сессии одной транзакцией
func (s *PostgresResultStore) SaveResults(ctx context.Context, sessionID string, results []entity.GradingResult) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from grading_results where session_id=$1`, sessionID); err != nil {
		return err
	}

	const q = `
insert into grading_results(session_id, position, filename, score, total, percentage, error, error_code)
values ($1,$2,$3,$4,$5,$6,$7,$8)`
	for i, r := range results {
		_, err := tx.ExecContext(ctx, q, sessionID, i, r.Filename,
			nullInt(r.Score), nullInt(r.Total), nullFloat(r.Percentage),
			nullString(r.Error), nullString(string(r.ErrorCode)))
		if err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Results возвращает результаты сессии в порядке проверки
func (s *PostgresResultStore) Results(ctx context.Context, sessionID string) ([]entity.GradingResult, error) {
	const q = `select filename, score, total, percentage, error, error_code
	           from grading_results
	           where session_id=$1
	           order by position`
	rows, err := s.DB.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []entity.GradingResult
	for rows.Next() {
		var (
			r          entity.GradingResult
			score      sql.NullInt64
			total      sql.NullInt64
			percentage sql.NullFloat64
			errText    sql.NullString
			errCode    sql.NullString
		)
		if err := rows.Scan(&r.Filename, &score, &total, &percentage, &errText, &errCode); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			r.Score = &v
		}
		if total.Valid {
			v := int(total.Int64)
			r.Total = &v
		}
		if percentage.Valid {
			v := percentage.Float64
			r.Percentage = &v
		}
		r.Error = errText.String
		r.ErrorCode = entity.ErrorCode(errCode.String)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return results, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Проверка реализации интерфейса
var _ port.ResultStore = (*PostgresResultStore)(nil)
