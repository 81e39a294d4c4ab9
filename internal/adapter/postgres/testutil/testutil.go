// Package testutil provides shared helpers for repository tests.
package testutil

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
)

// NewMockQuerier creates a pgxmock pool usable wherever a repository takes
// a postgres.Querier.
func NewMockQuerier(t *testing.T) (postgres.Querier, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, mock
}

// ExpectationsWereMet fails the test when the mock saw fewer queries than
// expected.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}
