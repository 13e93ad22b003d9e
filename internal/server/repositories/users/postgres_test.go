package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairplay-su/scdm-server/internal/common"
	"github.com/fairplay-su/scdm-server/internal/server/models"
)

const (
	insertRe = `(?s)^INSERT\s+INTO\s+users\s*\(login,\s*password_hash,\s*main_faction,\s*system_role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectRe = `(?s)^SELECT\s+id,\s*login,\s*password_hash,\s*main_faction,\s*system_role,\s*created_at\s+FROM\s+users\s+WHERE\s+`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userColumns() []string {
	return []string{"id", "login", "password_hash", "main_faction", "system_role", "created_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now)
	mock.ExpectQuery(insertRe).
		WithArgs("neo", "$2a$10$hash", "STALKER", "USER").
		WillReturnRows(rows)

	u := &models.User{Login: "neo", PasswordHash: "$2a$10$hash", MainFaction: models.FactionStalker, SystemRole: models.RoleUser}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Login != "neo" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolationMapsToLoginTaken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertRe).
		WithArgs("neo", "$2a$10$hash", "STALKER", "USER").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_login_key"})

	_, err := repo.Create(context.Background(), &models.User{
		Login: "neo", PasswordHash: "$2a$10$hash", MainFaction: models.FactionStalker, SystemRole: models.RoleUser,
	})
	if !errors.Is(err, common.ErrorLoginTaken) {
		t.Fatalf("expected common.ErrorLoginTaken, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertRe).
		WithArgs("neo", "$2a$10$hash", "STALKER", "USER").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{
		Login: "neo", PasswordHash: "$2a$10$hash", MainFaction: models.FactionStalker, SystemRole: models.RoleUser,
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1), "neo", "$2a$10$hash", "STALKER", "USER", time.Now())
	mock.ExpectQuery(selectRe + `login\s*=\s*\$1`).
		WithArgs("neo").
		WillReturnRows(rows)

	got, err := repo.GetByLogin(context.Background(), "neo")
	if err != nil {
		t.Fatalf("GetByLogin error: %v", err)
	}
	if got.ID != 1 || got.Login != "neo" || got.MainFaction != models.FactionStalker {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectRe + `login\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(7), "trinity", "$2a$10$hash", "FREEDOM", "USER", time.Now())
	mock.ExpectQuery(selectRe + `id\s*=\s*\$1`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.Login != "trinity" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectRe + `id\s*=\s*\$1`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
