package mechanics

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/dvi/internal/common"
	shared "github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+mechanics\s*\(name,\s*pin_hash,\s*company_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	listQ   = `(?s)^SELECT\s+id,\s*name,\s*company_id\s+FROM\s+mechanics\s+WHERE\s+company_id\s*=\s*\$1\s+AND\s+mobile_enabled\s+ORDER\s+BY\s+name,\s*id\s*$`
	selectQ = `(?s)^SELECT\s+id,\s*name,\s*pin_hash,\s*created_at\s+FROM\s+mechanics\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("Sam", []byte("hash"), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))

	got, err := repo.Create(context.Background(), &models.Mechanic{Name: "Sam", PINHash: []byte("hash")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 12 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected mechanic: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("Sam", []byte("hash"), nil).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Mechanic{Name: "Sam", PINHash: []byte("hash")})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "pin_hash", "created_at"}).
			AddRow(int64(12), "Sam", []byte("hash"), time.Now()))

	got, err := repo.GetByID(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 12 || got.Name != "Sam" || string(got.PINHash) != "hash" {
		t.Fatalf("unexpected mechanic: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs(int64(7)).WillReturnError(errors.New("boom"))

	_, err := repo.GetByID(context.Background(), 7)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestCreate_WithCompany(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("Sam", []byte("hash"), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(13), time.Now()))

	got, err := repo.Create(context.Background(), &models.Mechanic{Name: "Sam", PINHash: []byte("hash"), CompanyID: 3})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 13 || got.CompanyID != 3 {
		t.Fatalf("unexpected mechanic: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByCompany_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "company_id"}).
			AddRow(int64(14), "Ilze", int64(3)).
			AddRow(int64(12), "Sam", int64(3)))

	got, err := repo.ListByCompany(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListByCompany error: %v", err)
	}
	want := []shared.MechanicInfo{{ID: 14, Name: "Ilze", CompanyID: 3}, {ID: 12, Name: "Sam", CompanyID: 3}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected mechanics: %+v", got)
	}
}

func TestListByCompany_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "company_id"}))

	got, err := repo.ListByCompany(context.Background(), 9)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v, %v", got, err)
	}
}

func TestListByCompany_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs(int64(9)).WillReturnError(errors.New("boom"))

	_, err := repo.ListByCompany(context.Background(), 9)
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
