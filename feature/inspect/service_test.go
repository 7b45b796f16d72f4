package inspect_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"view-sync/core/sectioned"
	"view-sync/core/server"
	"view-sync/core/surface"
	"view-sync/feature/inspect"
	"view-sync/feature/store"
)

func pathPtr(section, item int) *sectioned.IndexPath {
	p := sectioned.Path(section, item)
	return &p
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStoreServicePerform(t *testing.T) {
	db, mock := setupMockDB(t)
	ctrl := store.NewController(db, nil)

	mock.ExpectQuery("SELECT \\* FROM `entries`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "section", "position", "payload"}).
			AddRow("1", 0, 0, "a"))
	require.NoError(t, ctrl.Fetch(context.Background()))

	surf := surface.New(ctrl, nil, nil)
	svc, err := inspect.NewStoreService(ctrl, surf, server.PolicySequential, nil, nil)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET `position`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `entries`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	report, err := svc.Perform(context.Background(), []inspect.Event{
		{Kind: "insert", NewPath: pathPtr(0, 1), Item: "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"begin_batch", "insert_items", "end_batch"}, opNames(report.Ops))
	assert.Equal(t, []int{2}, report.Surface.SectionCounts)
	assert.Equal(t, 2, ctrl.NumberOfItems(0))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreServicePerform_Rollback(t *testing.T) {
	db, mock := setupMockDB(t)
	ctrl := store.NewController(db, nil)

	mock.ExpectQuery("SELECT \\* FROM `entries`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "section", "position", "payload"}).
			AddRow("1", 0, 0, "a"))
	require.NoError(t, ctrl.Fetch(context.Background()))

	surf := surface.New(ctrl, nil, nil)
	svc, err := inspect.NewStoreService(ctrl, surf, server.PolicySequential, nil, nil)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	// Mirror re-fetch after rollback
	mock.ExpectQuery("SELECT \\* FROM `entries`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "section", "position", "payload"}).
			AddRow("1", 0, 0, "a"))

	_, err = svc.Perform(context.Background(), []inspect.Event{
		{Kind: "delete", OldPath: pathPtr(0, 9)},
	})
	require.Error(t, err)

	// Nothing reached the surface and the store is unchanged.
	assert.Empty(t, surf.Ops())
	assert.Equal(t, 1, ctrl.NumberOfItems(0))

	assert.NoError(t, mock.ExpectationsWereMet())
}
