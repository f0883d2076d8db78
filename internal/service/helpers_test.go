package service

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/model"
	"SkillHub/internal/repo"
	"SkillHub/internal/storage"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	alice = auth.Identity{ID: "100", Name: "alice"}
	bob   = auth.Identity{ID: "200", Name: "bob"}
	admin = auth.Identity{ID: "900", Name: "root", IsAdmin: true}
)

type testEnv struct {
	svc   *SkillService
	store storage.ObjectStore
}

// newTestEnv поднимает сервис поверх in-memory SQLite и хранилища в БД.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := storage.NewDBStore(repo.NewBlobRepository(db))
	svc := NewSkillService(repo.NewSkillRepository(db), repo.NewLikeRepository(db), store, zap.NewNop().Sugar())
	return &testEnv{svc: svc, store: store}
}

func (e *testEnv) putObject(t *testing.T, key string, data []byte) {
	t.Helper()
	require.NoError(t, e.store.Put(context.Background(), key, bytes.NewReader(data), int64(len(data)), "application/octet-stream", nil))
}

func (e *testEnv) exists(key string) bool {
	_, err := e.store.Head(context.Background(), key)
	return err == nil
}

// submit публикует skill автора с архивом и изображениями.
func (e *testEnv) submit(t *testing.T, author auth.Identity, name string, images ...string) *model.Skill {
	t.Helper()
	archive := storage.ArchivePrefix(author.ID) + uuid.NewString() + "-" + name + ".zip"
	e.putObject(t, archive, []byte("PK\x03\x04"+name))
	for _, k := range images {
		e.putObject(t, k, []byte("img"))
	}
	sk, err := e.svc.Create(context.Background(), author, CreateInput{
		Name:        name,
		Description: name + " description",
		ArchiveKey:  archive,
		ImageKeys:   images,
	})
	require.NoError(t, err)
	return sk
}

func (e *testEnv) approve(t *testing.T, id string) {
	t.Helper()
	_, err := e.svc.Review(context.Background(), id, model.StatusApproved)
	require.NoError(t, err)
}

func imageKey(userID, name string) string {
	return storage.ImagePrefix(userID) + name + ".png"
}

// Мок ObjectStore для проверки поведения при сбоях хранилища.
type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	return m.Called(ctx, key, body, size, contentType, metadata).Error(0)
}
func (m *mockStore) Get(ctx context.Context, key string, rng *storage.ByteRange) (*storage.Object, error) {
	args := m.Called(ctx, key, rng)
	if v, ok := args.Get(0).(*storage.Object); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Head(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if v, ok := args.Get(0).(*storage.ObjectInfo); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *mockStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

var _ storage.ObjectStore = (*mockStore)(nil)

// Мок SkillRepository для сбоев БД.
type mockSkillRepo struct{ mock.Mock }

func (m *mockSkillRepo) Create(ctx context.Context, s *model.Skill) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSkillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Skill); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSkillRepo) ListApproved(ctx context.Context, keyword string) ([]model.Skill, error) {
	args := m.Called(ctx, keyword)
	if v, ok := args.Get(0).([]model.Skill); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSkillRepo) ListPending(ctx context.Context) ([]model.Skill, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Skill); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSkillRepo) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}
func (m *mockSkillRepo) SetStatusIfPending(ctx context.Context, id string, status model.SkillStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, status, at)
	return args.Bool(0), args.Error(1)
}
func (m *mockSkillRepo) IncrementDownloads(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSkillRepo) KeysInUse(ctx context.Context, keys []string, exceptID string) (bool, error) {
	args := m.Called(ctx, keys, exceptID)
	return args.Bool(0), args.Error(1)
}

var _ repo.SkillRepository = (*mockSkillRepo)(nil)
