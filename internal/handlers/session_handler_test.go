package handlers_test

import (
	"SkillHub/internal/auth"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type devLoginResponse struct {
	User  auth.Identity `json:"user"`
	Token string        `json:"token"`
}

func TestDevLogin_DisabledByDefault(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	rr := s.doJSON(t, http.MethodPost, "/api/dev/login", map[string]string{"id": "1"}, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDevLogin_IssuesSession(t *testing.T) {
	cfg := testConfig()
	cfg.DevLogin = true
	s := newTestServer(t, cfg, nil)

	rr := s.doJSON(t, http.MethodPost, "/api/dev/login", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.doJSON(t, http.MethodPost, "/api/dev/login", map[string]string{"id": admin.ID, "name": "root"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[devLoginResponse](t, rr)
	assert.Equal(t, admin.ID, resp.User.ID)
	assert.True(t, resp.User.IsAdmin)
	require.NotEmpty(t, resp.Token)

	// cookie из ответа открывает админские маршруты
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/skills", nil)
	req.AddCookie(cookies[0])
	rr = s.do(t, req, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// токен из тела работает как Bearer
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rr = s.do(t, req, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[auth.Identity](t, rr)
	assert.Equal(t, "root", me.Name)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	rr := s.do(t, httptest.NewRequest(http.MethodPost, "/api/logout", nil), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
