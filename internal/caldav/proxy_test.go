package caldav

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
)

type proxyFixture struct {
	proxy   *Proxy
	mock    pgxmock.PgxPoolIface
	jwt     *services.JWTService
	backend *backendRecorder
}

type backendRecorder struct {
	server     *httptest.Server
	lastPath   string
	lastMethod string
	lastAuth   string
	hits       int
}

func setupProxy(t *testing.T) *proxyFixture {
	t.Helper()

	rec := &backendRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.hits++
		rec.lastPath = r.URL.Path
		rec.lastMethod = r.Method
		rec.lastAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(rec.server.Close)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	jwtSvc := services.NewJWTService("test-secret", 15*time.Minute, time.Hour)

	proxy, err := NewProxy(rec.server.URL+"/radicale", jwtSvc, services.NewUserService(db), services.NewAuthorizationService(db))
	require.NoError(t, err)

	return &proxyFixture{proxy: proxy, mock: mock, jwt: jwtSvc, backend: rec}
}

func (f *proxyFixture) expectUser(t *testing.T, user models.User) {
	t.Helper()
	now := time.Now()
	f.mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(user.ID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "public_name", "password_hash", "profile",
			"is_active", "is_deleted", "created_at", "updated_at",
		}).AddRow(
			user.ID, user.Email, user.PublicName, user.PasswordHash,
			user.Profile, true, false, now, now,
		))
}

func (f *proxyFixture) bearerFor(t *testing.T, userID int64) string {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(userID, "user@example.org")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestProxy_RequiresAuthentication(t *testing.T) {
	f := setupProxy(t)

	req := httptest.NewRequest(http.MethodGet, "/dav/user/1.ics/", nil)
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
	assert.Zero(t, f.backend.hits)
}

func TestProxy_OwnUserCalendarIsForwarded(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "user@example.org", Profile: models.ProfileUser})

	req := httptest.NewRequest(http.MethodGet, "/dav/user/1.ics/", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.backend.hits)
	assert.Equal(t, "/radicale/user/1.ics/", f.backend.lastPath)
	// Credentials never reach the calendar server.
	assert.Empty(t, f.backend.lastAuth)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestProxy_OtherUserCalendarIsForbidden(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "user@example.org", Profile: models.ProfileUser})

	req := httptest.NewRequest(http.MethodGet, "/dav/user/2.ics/", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.backend.hits)
}

func TestProxy_AdminReachesAnyUserCalendar(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "admin@example.org", Profile: models.ProfileAdmin})

	req := httptest.NewRequest(http.MethodGet, "/dav/user/2.ics/", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.backend.hits)
}

func TestProxy_WorkspaceCalendarReadNeedsReader(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "user@example.org", Profile: models.ProfileUser})
	f.mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleReader))

	req := httptest.NewRequest(http.MethodGet, "/dav/workspace/7.ics/", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/radicale/workspace/7.ics/", f.backend.lastPath)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestProxy_WorkspaceCalendarWriteNeedsContributor(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "user@example.org", Profile: models.ProfileUser})
	f.mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleReader))

	req := httptest.NewRequest(http.MethodPut, "/dav/workspace/7.ics/event.ics", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.backend.hits)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestProxy_HiddenWorkspaceReadsAsNotFound(t *testing.T) {
	f := setupProxy(t)
	f.expectUser(t, models.User{ID: 1, Email: "user@example.org", Profile: models.ProfileUser})
	f.mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs(int64(1), int64(7)).
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/dav/workspace/7.ics/", nil)
	req.Header.Set("Authorization", f.bearerFor(t, 1))
	w := httptest.NewRecorder()
	f.proxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.backend.hits)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSplitCalendarPath(t *testing.T) {
	cases := []struct {
		path string
		kind string
		id   int64
		ok   bool
	}{
		{"/dav/user/1.ics/", "user", 1, true},
		{"/dav/user/12.ics/calendar.ics", "user", 12, true},
		{"/dav/workspace/7.ics/", "workspace", 7, true},
		{"/dav/user/", "user", 0, true},
		{"/dav/workspace/", "workspace", 0, true},
		{"/dav/other/1.ics/", "", 0, false},
		{"/dav/user/abc.ics/", "", 0, false},
		{"/api/v2/workspaces", "", 0, false},
	}

	for _, tc := range cases {
		kind, id, ok := splitCalendarPath(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		if tc.ok {
			assert.Equal(t, tc.kind, kind, tc.path)
			assert.Equal(t, tc.id, id, tc.path)
		}
	}
}
