package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/carwash-api/internal/repository"
	"github.com/smartpark/carwash-api/internal/utils"
)

const authSecret = "middleware-test-secret"

func runAuth(t *testing.T, db *sql.DB, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cars", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := SessionAuth(authSecret, repository.NewUserRepo(db))
	err := mw(func(c echo.Context) error {
		called = true
		require.Equal(t, uint64(7), c.Get("user_id"))
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, called
}

func TestSessionAuthMissingHeader(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec, called := runAuth(t, db, "")
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestSessionAuthExpiredToken(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tok, err := utils.NewSessionToken(authSecret, 7, -time.Minute)
	require.NoError(t, err)

	rec, called := runAuth(t, db, "Bearer "+tok.Token)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token expired")
}

func TestSessionAuthBadSignature(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tok, err := utils.NewSessionToken("some other secret", 7, time.Hour)
	require.NoError(t, err)

	rec, called := runAuth(t, db, "Bearer "+tok.Token)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
}

// A token for a deleted user is rejected even though it verifies.
func TestSessionAuthDeletedUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tok, err := utils.NewSessionToken(authSecret, 7, time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT user_id,username,email,password_hash,created_at,updated_at FROM users WHERE user_id=\\?").
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	rec, called := runAuth(t, db, "Bearer "+tok.Token)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionAuthSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tok, err := utils.NewSessionToken(authSecret, 7, time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT user_id,username,email,password_hash,created_at,updated_at FROM users WHERE user_id=\\?").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(7, "alice", "alice@example.com", "x", now, now))

	rec, called := runAuth(t, db, "Bearer "+tok.Token)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
