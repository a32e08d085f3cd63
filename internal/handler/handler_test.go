package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// errDuplicate mimics the MySQL duplicate-key error for a named key.
func errDuplicate(key string) error {
	return fmt.Errorf("Error 1062 (23000): Duplicate entry 'x' for key '%s'", key)
}

// errChildRow mimics the MySQL restrict error raised when child rows still
// reference the row being deleted.
func errChildRow() error {
	return fmt.Errorf("Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails")
}

// newMockDB returns a mocked *sql.DB for repository-backed handlers.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGetContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	return newJSONContext(http.MethodGet, target, "")
}
