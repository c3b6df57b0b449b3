package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newOperatorRepo(t *testing.T) (*OperatorRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewOperatorRepository(db), mock, db
}

func TestOperatorCreate(t *testing.T) {
	repo, mock, _ := newOperatorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertOperatorSQL)).
		WithArgs("alice", "hash").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create("alice", "hash")
	if err != nil || id != 7 {
		t.Fatalf("Create = %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOperatorCreate_Duplicate(t *testing.T) {
	repo, mock, _ := newOperatorRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertOperatorSQL)).
		WillReturnError(errors.New("UNIQUE constraint failed: operators.username"))

	if _, err := repo.Create("alice", "hash"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestOperatorGetByUsername(t *testing.T) {
	repo, mock, _ := newOperatorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectOperatorByUsernameSQL)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(1, "alice", "h"))
	mock.ExpectQuery(regexp.QuoteMeta(selectOperatorByUsernameSQL)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

	op, err := repo.GetByUsername("alice")
	if err != nil || op == nil || op.ID != 1 || op.PasswordHash != "h" {
		t.Fatalf("alice = %+v, %v", op, err)
	}
	op, err = repo.GetByUsername("bob")
	if err != nil || op != nil {
		t.Fatalf("bob = %+v, %v; want nil, nil", op, err)
	}
}
