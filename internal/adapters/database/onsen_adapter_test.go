package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/adapters/database"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
	apperrors "github.com/yurift/drift/pkg/errors"
)

var onsenRowColumns = []string{"id", "name", "address", "lat", "lng", "price", "keywords"}

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return postgres.Wrap(db), mock
}

func TestOnsenAdapter_FindInBoundingBox(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	rows := sqlmock.NewRows(onsenRowColumns).
		AddRow(int64(1), "大江戸温泉", "東京都江東区", 35.62, 139.78, int64(2768), "{露天風呂,都会}").
		AddRow(int64(2), "", "broken row", 35.63, 139.70, int64(500), "{}").
		AddRow(int64(3), "森の湯", nil, 35.70, 139.60, nil, "{森,檜}")

	mock.ExpectQuery(`SELECT "id", "name", "address", "lat", "lng", "price", "keywords" FROM "onsen_master" WHERE \(\("lat" BETWEEN .+\) AND \("lng" BETWEEN .+\)\) ORDER BY "id" ASC LIMIT 100`).
		WillReturnRows(rows)

	box := entities.BoundingBox{MinLat: 35.2, MaxLat: 36.1, MinLng: 139.2, MaxLng: 140.3}
	got, err := adapter.FindInBoundingBox(context.Background(), box, 100)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, []string{"露天風呂", "都会"}, got[0].Keywords)
	assert.Equal(t, 2768, got[0].Price)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, "", got[1].Address)
	assert.Equal(t, 0, got[1].Price)
}

func TestOnsenAdapter_FindInBoundingBox_QueryError(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	mock.ExpectQuery(`SELECT .* FROM "onsen_master"`).WillReturnError(sql.ErrConnDone)

	_, err := adapter.FindInBoundingBox(context.Background(), entities.BoundingBox{}, 100)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestOnsenAdapter_Create(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	mock.ExpectQuery(`INSERT INTO "onsen_master" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	f := &entities.Facility{Name: "草津温泉 西の河原", Address: "群馬県", Lat: 36.62, Lng: 138.59, Price: 700, Keywords: []string{"硫黄泉"}}
	require.NoError(t, adapter.Create(context.Background(), f))
	assert.Equal(t, int64(42), f.ID)
}

func TestOnsenAdapter_Create_RejectsInvalid(t *testing.T) {
	client, _ := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	err := adapter.Create(context.Background(), &entities.Facility{Name: "nowhere", Lat: 123})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}

func TestOnsenAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	mock.ExpectQuery(`SELECT .* FROM "onsen_master" WHERE \("id" = 7\)`).
		WillReturnRows(sqlmock.NewRows(onsenRowColumns))

	_, err := adapter.GetByID(context.Background(), 7)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}

func TestOnsenAdapter_List(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewOnsenAdapter(client, nil)

	mock.ExpectQuery(`SELECT .* FROM "onsen_master" WHERE \("id" > 10\) ORDER BY "id" ASC LIMIT 2`).
		WillReturnRows(sqlmock.NewRows(onsenRowColumns).
			AddRow(int64(11), "a", "x", 35.0, 139.0, int64(100), "{}").
			AddRow(int64(12), "b", "y", 35.1, 139.1, int64(200), "{海}"))

	got, err := adapter.List(context.Background(), repositories.OnsenFilter{AfterID: 10, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(12), got[1].ID)
}
