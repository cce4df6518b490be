package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneprice/internal/model"
	"phoneprice/internal/repository"
)

var copyStmt = regexp.QuoteMeta(pq.CopyIn("phone_prices", "run_id", "model", "price", "source", "created_at"))

func TestArchiveRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &repository.ArchiveRepository{DB: db}
	runID := uuid.MustParse("7f1d5c8e-3a51-4a8e-9b1a-2f0c2d4e6a11")
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	src := "https://detail.zol.com.cn/cell_phone_index/subcate57_list_1.html"

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(copyStmt)
	prep.ExpectExec().
		WithArgs(runID.String(), "荣耀X50(12GB/256GB)", "1299.00", src, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(runID.String(), "小米14 Pro(16GB+1TB)", "5999", src, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 2))
	prep.WillBeClosed()
	mock.ExpectCommit()

	err = repo.Save(context.Background(), runID, src, []model.NormalizedRecord{
		{Model: "荣耀X50(12GB/256GB)", Price: "1299.00"},
		{Model: "小米14 Pro(16GB+1TB)", Price: "5999"},
	}, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepository_SaveRollsBackOnCopyError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &repository.ArchiveRepository{DB: db}
	runID := uuid.New()
	at := time.Now()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(copyStmt)
	prep.ExpectExec().
		WithArgs(runID.String(), "荣耀X50", "1299", "src", at).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = repo.Save(context.Background(), runID, "src", []model.NormalizedRecord{{Model: "荣耀X50", Price: "1299"}}, at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepository_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS phone_prices").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &repository.ArchiveRepository{DB: db}
	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
