package lineitems

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dvi/internal/models"
)

const listQ = `(?s)^SELECT\s+id,\s*order_id,\s*description,\s*category\s+FROM\s+line_items\s+WHERE\s+order_id\s*=\s*\$1\s+ORDER\s+BY\s+position,\s*id\s*$`

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestListByOrder_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "description", "category"}).
			AddRow(int64(1), int64(55), "Front brake pads", "brakes").
			AddRow(int64(2), int64(55), "Wiper blades", ""))

	got, err := repo.ListByOrder(context.Background(), 55)
	require.NoError(t, err)
	require.Equal(t, []models.LineItem{
		{ID: 1, OrderID: 55, Description: "Front brake pads", Category: "brakes"},
		{ID: 2, OrderID: 55, Description: "Wiper blades"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOrder_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "description", "category"}))

	got, err := repo.ListByOrder(context.Background(), 9)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestListByOrder_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs(int64(9)).WillReturnError(errors.New("db down"))

	_, err := repo.ListByOrder(context.Background(), 9)
	require.ErrorContains(t, err, "db error: db down")
}

func TestListByOrder_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "order_id", "description", "category"}).
		AddRow(int64(1), int64(9), "Tires", "").
		RowError(0, errors.New("bad row"))
	mock.ExpectQuery(listQ).WithArgs(int64(9)).WillReturnRows(rows)

	_, err := repo.ListByOrder(context.Background(), 9)
	require.ErrorContains(t, err, "bad row")
}
