package handlers_test

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/config"
	"SkillHub/internal/handlers"
	"SkillHub/internal/repo"
	"SkillHub/internal/service"
	"SkillHub/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	alice = auth.Identity{ID: "100", Name: "alice"}
	bob   = auth.Identity{ID: "200", Name: "bob"}
	admin = auth.Identity{ID: "900", Name: "root"}
)

type testServer struct {
	router http.Handler
	policy *auth.Policy
	store  storage.ObjectStore
	cfg    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		AuthSecret:       "test-secret",
		AdminIDs:         []string{admin.ID},
		ArchiveMaxSizeMB: 1,
		ImageMaxSizeMB:   1,
		UploadRatePerMin: 100,
		PresignTTL:       time.Minute,
	}
}

// newTestServer собирает роутер поверх in-memory SQLite. wrap позволяет подменить хранилище.
func newTestServer(t *testing.T, cfg *config.Config, wrap func(storage.ObjectStore) storage.ObjectStore) *testServer {
	t.Helper()
	return newTestServerWith(t, cfg, wrap, nil)
}

// newTestServerWith дополнительно позволяет подменить репозиторий skills.
func newTestServerWith(
	t *testing.T,
	cfg *config.Config,
	wrap func(storage.ObjectStore) storage.ObjectStore,
	wrapSkills func(repo.SkillRepository) repo.SkillRepository,
) *testServer {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	var store storage.ObjectStore = storage.NewDBStore(repo.NewBlobRepository(db))
	if wrap != nil {
		store = wrap(store)
	}
	policy := auth.NewPolicy(cfg.AuthSecret, cfg.AdminIDs)
	skills := repo.NewSkillRepository(db)
	if wrapSkills != nil {
		skills = wrapSkills(skills)
	}
	svc := service.NewSkillService(skills, repo.NewLikeRepository(db), store, logger)
	h := handlers.NewHandler(svc, store, policy, logger, cfg)
	return &testServer{router: h.Router, policy: policy, store: store, cfg: cfg}
}

func (s *testServer) do(t *testing.T, req *http.Request, as *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	if as != nil {
		tok, err := s.policy.IssueToken(*as, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, method, target string, body any, as *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, as)
}

func (s *testServer) putObject(t *testing.T, key string, data []byte, contentType string) {
	t.Helper()
	require.NoError(t, s.store.Put(context.Background(), key, bytes.NewReader(data), int64(len(data)), contentType, nil))
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func zipFile(name string, data string) formFile {
	return formFile{field: "file", filename: name, contentType: "application/zip", data: []byte(data)}
}

func pngFile(field string) formFile {
	return formFile{field: field, filename: "cover.png", contentType: "image/png", data: []byte("\x89PNG fake")}
}

type uploadResult struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type skillJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	FileKey   string   `json:"fileKey"`
	ImageKeys []string `json:"imageKeys"`
	Downloads int64    `json:"downloads"`
	Likes     int64    `json:"likes"`
	Liked     bool     `json:"liked"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// publish загружает архив и изображения от имени author и создаёт skill; approve — сразу одобрить.
func (s *testServer) publish(t *testing.T, author auth.Identity, name string, images int, approve bool) skillJSON {
	t.Helper()
	rr := s.do(t, multipartRequest(t, http.MethodPost, "/api/upload", nil, zipFile(name+".zip", "PK zip "+name)), &author)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	archive := decode[uploadResult](t, rr)

	var imageKeys []string
	for i := 0; i < images; i++ {
		rr := s.do(t, multipartRequest(t, http.MethodPost, "/api/upload-image", nil, pngFile("image")), &author)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		imageKeys = append(imageKeys, decode[uploadResult](t, rr).Key)
	}

	rr = s.doJSON(t, http.MethodPost, "/api/skills", map[string]any{
		"name":        name,
		"description": name + " helps with things",
		"fileKey":     archive.Key,
		"fileSize":    archive.Size,
		"imageKeys":   imageKeys,
	}, &author)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sk := decode[struct {
		Skill skillJSON `json:"skill"`
	}](t, rr).Skill

	if approve {
		rr = s.doJSON(t, http.MethodPatch, "/api/admin/skills", map[string]string{"id": sk.ID, "status": "approved"}, &admin)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		sk.Status = "approved"
	}
	return sk
}

func (s *testServer) getSkill(t *testing.T, id string, as *auth.Identity) skillJSON {
	t.Helper()
	rr := s.do(t, httptest.NewRequest(http.MethodGet, "/api/skills/"+id, nil), as)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[struct {
		Skill skillJSON `json:"skill"`
	}](t, rr).Skill
}
