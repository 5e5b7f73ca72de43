package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoqc/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	m := domain.NewMedia("clip.mov", "/data/uploads/clip.mov", 2048)
	m.ProbeJSON = `{"streams":[]}`
	require.NoError(t, store.Save(m))

	got, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "clip.mov", got.OriginalName)
	assert.Equal(t, domain.MediaStatusUploaded, got.Status)
	assert.Equal(t, int64(2048), got.FileSize)
	assert.Equal(t, `{"streams":[]}`, got.ProbeJSON)
}

func TestStoreGet_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("nope1234")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreUpdates(t *testing.T) {
	store := newTestStore(t)

	m := domain.NewMedia("clip.mov", "/in/clip.mov", 0)
	require.NoError(t, store.Save(m))

	require.NoError(t, store.UpdateStatus(m.ID, domain.MediaStatusFailed, "invalid codec"))
	got, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaStatusFailed, got.Status)
	assert.Equal(t, "invalid codec", got.ErrorMessage)

	require.NoError(t, store.UpdateDone(m.ID, "/out/a.mxf"))
	got, err = store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaStatusDone, got.Status)
	assert.Equal(t, "/out/a.mxf", got.ConvertedPath)
	assert.Empty(t, got.ErrorMessage)

	require.NoError(t, store.UpdateProbeJSON(m.ID, `{"streams":[{}]}`))
	got, err = store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"streams":[{}]}`, got.ProbeJSON)
}

func TestStoreListAllAndDelete(t *testing.T) {
	store := newTestStore(t)

	a := domain.NewMedia("a.mov", "/in/a.mov", 0)
	b := domain.NewMedia("b.mov", "/in/b.mov", 0)
	require.NoError(t, store.Save(a))
	require.NoError(t, store.Save(b))

	list, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.Delete(a.ID))
	list, err = store.ListAll()
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestJobQueueLifecycle(t *testing.T) {
	store := newTestStore(t)
	queue := NewJobQueue(store)

	m := domain.NewMedia("clip.mov", "/in/clip.mov", 0)
	require.NoError(t, store.Save(m))

	req := domain.NewConversionRequest("/in/clip.mov", "/out/clip.mxf")
	job, err := queue.Enqueue(m.ID, req)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, domain.DefaultVideoCodec, job.VideoCodec)

	claimed, err := queue.Claim()
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, job.ID, claimed.ID)
	assert.Equal(t, domain.JobStatusRunning, claimed.Status)
	assert.Equal(t, int64(1), claimed.Attempts)
	assert.True(t, claimed.StartedAt.Valid)

	// Queue is drained now.
	next, err := queue.Claim()
	require.NoError(t, err)
	assert.Nil(t, next)

	require.NoError(t, queue.Complete(claimed.ID))
	latest, err := queue.LatestByMedia(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDone, latest.Status)
	assert.True(t, latest.CompletedAt.Valid)
}

func TestJobQueueFail(t *testing.T) {
	store := newTestStore(t)
	queue := NewJobQueue(store)

	m := domain.NewMedia("clip.mov", "/in/clip.mov", 0)
	require.NoError(t, store.Save(m))

	_, err := queue.Enqueue(m.ID, domain.NewConversionRequest("/in/clip.mov", "/out/clip.mxf"))
	require.NoError(t, err)

	claimed, err := queue.Claim()
	require.NoError(t, err)
	require.NotNil(t, claimed)

	require.NoError(t, queue.Fail(claimed.ID, "invalid codec"))
	latest, err := queue.LatestByMedia(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, latest.Status)
	assert.Equal(t, "invalid codec", latest.ErrorMessage)
}

func TestJobQueueResetStalled(t *testing.T) {
	store := newTestStore(t)
	queue := NewJobQueue(store)

	m := domain.NewMedia("clip.mov", "/in/clip.mov", 0)
	require.NoError(t, store.Save(m))

	_, err := queue.Enqueue(m.ID, domain.NewConversionRequest("/in/clip.mov", "/out/clip.mxf"))
	require.NoError(t, err)

	claimed, err := queue.Claim()
	require.NoError(t, err)
	require.NotNil(t, claimed)

	require.NoError(t, queue.ResetStalled())

	reclaimed, err := queue.Claim()
	require.NoError(t, err)
	require.NotNil(t, reclaimed)
	assert.Equal(t, claimed.ID, reclaimed.ID)
	assert.Equal(t, int64(2), reclaimed.Attempts)
}

func TestJobQueueLatestByMedia_NotFound(t *testing.T) {
	store := newTestStore(t)
	queue := NewJobQueue(store)

	_, err := queue.LatestByMedia("missing1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStore(store)

	has, err := users.HasUser()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, users.CreateUser("admin", "$2a$10$hash"))

	has, err = users.HasUser()
	require.NoError(t, err)
	assert.True(t, has)

	u, err := users.GetUser("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)

	byID, err := users.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)

	_, err = users.GetUser("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Error(t, users.CreateUser("admin", "again"), "usernames are unique")
}
