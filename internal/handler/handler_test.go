package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/accomnote/internal/config"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/handler"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/router"
	"github.com/noah-isme/accomnote/internal/service"
	"github.com/noah-isme/accomnote/internal/session"
	"github.com/noah-isme/accomnote/internal/view"
)

const testCookie = "accomnote_session"

type fakeAuth struct {
	sess      session.Session
	err       error
	loggedOut []string
}

func (f *fakeAuth) Login(context.Context, string, string) (session.Session, error) {
	if f.err != nil {
		return session.Session{}, f.err
	}
	return f.sess, nil
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	return nil
}

type fakeStudents struct {
	lastSess  session.Session
	lastInput service.AddStudentInput
	addErr    error
	result    service.AddResult
	section   map[string]models.StudentRecord
	all       map[string]map[string]map[string]models.StudentRecord
}

func (f *fakeStudents) Add(_ context.Context, sess session.Session, input service.AddStudentInput) (service.AddResult, error) {
	f.lastSess = sess
	f.lastInput = input
	if f.addErr != nil {
		return service.AddResult{}, f.addErr
	}
	return f.result, nil
}

func (f *fakeStudents) ListSection(context.Context, string, string) (map[string]models.StudentRecord, error) {
	return f.section, nil
}

func (f *fakeStudents) ListAll(context.Context) (map[string]map[string]map[string]models.StudentRecord, error) {
	return f.all, nil
}

func newTestApp(t *testing.T, auth service.AuthService, students service.StudentService) (*fiber.App, session.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := session.NewRedisStore(client, time.Hour)
	notices := flash.NewSigner("test-secret")
	logger := zerolog.New(io.Discard)

	views, err := view.New()
	require.NoError(t, err)

	cfg := config.Config{AppName: "test", CookieName: testCookie, SessionTTL: time.Hour}

	app := fiber.New(fiber.Config{Views: views})
	router.Register(app, cfg, router.Dependencies{
		Auth:      handler.NewAuthHandler(auth, notices, cfg.CookieName, logger),
		Dashboard: handler.NewDashboardHandler(students, notices, logger),
		Student:   handler.NewStudentHandler(students, notices, logger),
		Sessions:  sessions,
		Notices:   notices,
	})

	return app, sessions
}

func putSession(t *testing.T, sessions session.Store, role models.Role) session.Session {
	t.Helper()

	sess := session.Session{
		ID:              session.NewID(),
		UID:             "uid-1",
		Role:            role,
		AssignedClass:   "5",
		AssignedSection: "A",
		Username:        "Ms. Lee",
	}
	require.NoError(t, sessions.Put(context.Background(), sess))

	return sess
}

func withSession(req *http.Request, sess session.Session) *http.Request {
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sess.ID})
	return req
}

func hasFlashCookie(resp *http.Response) bool {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "accomnote_flash" && cookie.Value != "" {
			return true
		}
	}
	return false
}

func TestProtectedRoutesRedirectAnonymousToLogin(t *testing.T) {
	app, _ := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	for _, route := range []string{"/dashboard", "/teacher", "/counselor", "/add_student"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, route, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusFound, resp.StatusCode, route)
		require.Equal(t, "/login", resp.Header.Get("Location"), route)
		require.True(t, hasFlashCookie(resp), route)
	}
}

func TestIndexRedirects(t *testing.T) {
	app, sessions := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	sess := putSession(t, sessions, models.RoleTeacher)
	resp, err = app.Test(withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))
	require.NoError(t, err)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestDashboardDispatchByRole(t *testing.T) {
	app, sessions := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	teacher := putSession(t, sessions, models.RoleTeacher)
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), teacher))
	require.NoError(t, err)
	require.Equal(t, "/teacher", resp.Header.Get("Location"))

	counselor := putSession(t, sessions, models.RoleCounselor)
	resp, err = app.Test(withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), counselor))
	require.NoError(t, err)
	require.Equal(t, "/counselor", resp.Header.Get("Location"))
}

func TestDashboardDispatchUnknownRole(t *testing.T) {
	app, sessions := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	odd := putSession(t, sessions, models.Role("principal"))
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), odd))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Unknown role")
}

func TestCounselorCannotOpenTeacherDashboard(t *testing.T) {
	app, sessions := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	counselor := putSession(t, sessions, models.RoleCounselor)
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/teacher", nil), counselor))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	require.True(t, hasFlashCookie(resp))
}

func TestTeacherDashboardRendersOwnSection(t *testing.T) {
	students := &fakeStudents{section: map[string]models.StudentRecord{
		"Jo_Ann": {Name: "Jo-Ann", Notes: "needs quiet space"},
	}}
	app, sessions := newTestApp(t, &fakeAuth{}, students)

	teacher := putSession(t, sessions, models.RoleTeacher)
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/teacher", nil), teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Jo-Ann")
	require.Contains(t, string(body), "Class 5 / A")
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	sess := session.Session{ID: session.NewID(), UID: "uid-1", Role: models.RoleTeacher, Username: "Ms. Lee"}
	app, _ := newTestApp(t, &fakeAuth{sess: sess}, &fakeStudents{})

	form := strings.NewReader("email=lee%40example.com&password=secret")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookie {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.Equal(t, sess.ID, sessionCookie.Value)
}

func TestLoginWithBlankFieldsRedirectsBack(t *testing.T) {
	app, _ := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=&password="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	require.True(t, hasFlashCookie(resp))
}

func TestLoginRejectionShowsNotice(t *testing.T) {
	app, _ := newTestApp(t, &fakeAuth{err: service.ErrMetadataNotFound}, &fakeStudents{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.co&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	require.True(t, hasFlashCookie(resp))
}

func TestLogoutClearsSessionAndCookie(t *testing.T) {
	auth := &fakeAuth{}
	app, sessions := newTestApp(t, auth, &fakeStudents{})

	sess := putSession(t, sessions, models.RoleTeacher)
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), sess))
	require.NoError(t, err)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	require.Equal(t, []string{sess.ID}, auth.loggedOut)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookie {
			require.Empty(t, cookie.Value)
		}
	}
}

func TestAddStudentSubmitPassesSessionToService(t *testing.T) {
	students := &fakeStudents{result: service.AddResult{Class: "5", Section: "A", Key: "Jo_Ann"}}
	app, sessions := newTestApp(t, &fakeAuth{}, students)

	teacher := putSession(t, sessions, models.RoleTeacher)
	form := strings.NewReader("name=Jo-Ann&class=9&section=C&notes=quiet+space")
	req := withSession(httptest.NewRequest(http.MethodPost, "/add_student", form), teacher)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	require.Equal(t, teacher.ID, students.lastSess.ID)
	require.Equal(t, "Jo-Ann", students.lastInput.Name)
	require.Equal(t, "9", students.lastInput.Class)
}

func TestAddStudentSubmitMissingName(t *testing.T) {
	students := &fakeStudents{addErr: service.ErrNameRequired}
	app, sessions := newTestApp(t, &fakeAuth{}, students)

	teacher := putSession(t, sessions, models.RoleTeacher)
	req := withSession(httptest.NewRequest(http.MethodPost, "/add_student", strings.NewReader("name=")), teacher)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "/add_student", resp.Header.Get("Location"))
	require.True(t, hasFlashCookie(resp))
}

func TestAddStudentFormHidesTargetForTeachers(t *testing.T) {
	app, sessions := newTestApp(t, &fakeAuth{}, &fakeStudents{})

	teacher := putSession(t, sessions, models.RoleTeacher)
	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/add_student", nil), teacher))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(body), `name="class"`)

	counselor := putSession(t, sessions, models.RoleCounselor)
	resp, err = app.Test(withSession(httptest.NewRequest(http.MethodGet, "/add_student", nil), counselor))
	require.NoError(t, err)

	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `name="class"`)
}
