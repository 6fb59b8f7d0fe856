package primary

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrimaryStore_EmptyDSN(t *testing.T) {
	_, err := NewPrimaryStore(context.Background(), "")
	assert.EqualError(t, err, "database DSN cannot be empty")
}

func TestNewPrimaryStore_BadDSN(t *testing.T) {
	_, err := NewPrimaryStore(context.Background(), "postgres://%zz")
	assert.ErrorContains(t, err, "unable to parse database DSN")
}

func TestPingAndClose(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	s := NewWithDB(mock)

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	mock.ExpectClose()

	assert.NoError(t, s.Ping(context.Background()))
	assert.EqualError(t, s.Ping(context.Background()), "connection reset")
	s.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}
