package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/msomdec/factcheck/internal/domain"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &UserRepository{db: db}, mock
}

func TestCreate_MapsPrimaryKeyViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (1555)"))

	err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "h"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WrapsOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("disk I/O error"))

	err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "h"})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrAlreadyExists)
	require.Contains(t, err.Error(), "insert user")
}

func TestAppendHistory_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO history_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AppendHistory(context.Background(), "ghost", domain.HistoryEntry{Type: domain.KindNewsAnalysis})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHistory_BadDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"date", "type", "input", "response"}).
		AddRow("not-a-date", "News Analysis", "Pasted Text", "r")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, type, input, response FROM history_entries")).
		WithArgs("bob").
		WillReturnRows(rows)

	_, err := repo.GetHistory(context.Background(), "bob")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse history date")
}
