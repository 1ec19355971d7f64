package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"bikebuilders/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// ==================== FAKES ====================

// fakeRemote is an in-memory RemoteStore counting every network-shaped call.
type fakeRemote struct {
	folderID string
	files    map[string][]byte // fileID -> content
	token    *oauth2.Token

	ensureCalls   atomic.Int32
	findCalls     atomic.Int32
	createCalls   atomic.Int32
	updateCalls   atomic.Int32
	downloadCalls atomic.Int32
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		folderID: "folder-1",
		files:    make(map[string][]byte),
		token:    &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)},
	}
}

func (f *fakeRemote) EnsureFolder(name string) (string, error) {
	f.ensureCalls.Add(1)
	return f.folderID, nil
}

func (f *fakeRemote) FindFile(name, parentID string) (string, error) {
	f.findCalls.Add(1)
	if _, ok := f.files[name]; ok {
		return name, nil
	}
	return "", nil
}

func (f *fakeRemote) CreateFile(name, parentID, mimeType string, content io.Reader) (string, error) {
	f.createCalls.Add(1)
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.files[name] = data
	return name, nil
}

func (f *fakeRemote) UpdateFile(fileID string, content io.Reader) error {
	f.updateCalls.Add(1)
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.files[fileID] = data
	return nil
}

func (f *fakeRemote) DownloadFile(fileID string) ([]byte, error) {
	f.downloadCalls.Add(1)
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (f *fakeRemote) CurrentToken() (*oauth2.Token, error) {
	return f.token, nil
}

func (f *fakeRemote) networkCalls() int32 {
	return f.ensureCalls.Load() + f.findCalls.Load() + f.createCalls.Load() +
		f.updateCalls.Load() + f.downloadCalls.Load()
}

// fakeSnapshotStore holds a fixed snapshot and records restores.
type fakeSnapshotStore struct {
	snap     *models.Snapshot
	restored *models.Snapshot
}

func (f *fakeSnapshotStore) CaptureSnapshot() (*models.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeSnapshotStore) RestoreSnapshot(snap *models.Snapshot) error {
	f.restored = snap
	return nil
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Customers: []models.Customer{{CustomerID: 1, Name: "Asha", Phone: "9876543210"}},
		Vehicles:  []models.Vehicle{{RegNumber: "KA01AB1234", CustomerID: 1}},
	}
}

func setupOrchestrator(t *testing.T) (*Orchestrator, *fakeRemote, *fakeSnapshotStore) {
	t.Helper()

	state, err := NewStateFile(filepath.Join(t.TempDir(), "sync_state.json"))
	require.NoError(t, err)

	remote := newFakeRemote()
	store := &fakeSnapshotStore{snap: testSnapshot()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	factory := func(ctx context.Context, token *oauth2.Token) (RemoteStore, error) {
		return remote, nil
	}

	return NewOrchestrator(store, state, factory, logger), remote, store
}

func signIn(t *testing.T, o *Orchestrator) {
	t.Helper()
	token := &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, o.SignIn(context.Background(), token))
}

// ==================== TESTS ====================

func TestSignInRejectsEmptyCredential(t *testing.T) {
	o, _, _ := setupOrchestrator(t)

	assert.ErrorIs(t, o.SignIn(context.Background(), nil), ErrAuthFailed)
	assert.ErrorIs(t, o.SignIn(context.Background(), &oauth2.Token{}), ErrAuthFailed)
	assert.Equal(t, StateSignedOut, o.State())
}

func TestSignInFailureReturnsToSignedOut(t *testing.T) {
	state, err := NewStateFile(filepath.Join(t.TempDir(), "sync_state.json"))
	require.NoError(t, err)

	factory := func(ctx context.Context, token *oauth2.Token) (RemoteStore, error) {
		return nil, errors.New("dial failed")
	}
	o := NewOrchestrator(&fakeSnapshotStore{}, state, factory, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err = o.SignIn(context.Background(), &oauth2.Token{AccessToken: "test-token"})
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, StateSignedOut, o.State())
	assert.False(t, o.IsSignedIn())
}

func TestSignInIsIdempotent(t *testing.T) {
	o, _, _ := setupOrchestrator(t)

	signIn(t, o)
	signIn(t, o)
	assert.Equal(t, StateSignedIn, o.State())
	assert.True(t, o.IsSignedIn())
}

func TestUploadRequiresSession(t *testing.T) {
	o, remote, _ := setupOrchestrator(t)

	err := o.UploadBackup(context.Background())

	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, remote.networkCalls())
}

func TestUploadCreatesThenOverwrites(t *testing.T) {
	o, remote, _ := setupOrchestrator(t)
	signIn(t, o)

	require.NoError(t, o.UploadBackup(context.Background()))
	assert.Equal(t, int32(1), remote.createCalls.Load())
	assert.Zero(t, remote.updateCalls.Load())

	require.NoError(t, o.UploadBackup(context.Background()))
	assert.Equal(t, int32(1), remote.createCalls.Load())
	assert.Equal(t, int32(1), remote.updateCalls.Load())

	// The folder lookup is memoized for the session.
	assert.Equal(t, int32(1), remote.ensureCalls.Load())

	// The uploaded document parses back into the captured dataset.
	snap, err := models.ParseSnapshot(remote.files[BackupFileName])
	require.NoError(t, err)
	assert.Len(t, snap.Customers, 1)
	assert.Equal(t, models.SnapshotVersion, snap.Version)
}

func TestUploadRecordsLastSync(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	signIn(t, o)

	_, ok := o.state.LastSync()
	assert.False(t, ok)

	require.NoError(t, o.UploadBackup(context.Background()))

	lastSync, ok := o.state.LastSync()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), lastSync, 5*time.Second)

	status := o.Status()
	assert.Equal(t, StateSignedIn, status["state"])
	assert.NotEmpty(t, status["last_sync"])
	result, ok := status["last_result"].(*Result)
	require.True(t, ok)
	assert.True(t, result.OK)
	assert.Equal(t, "upload", result.Operation)
}

func TestConcurrentSyncFailsFast(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	signIn(t, o)

	done, err := o.beginSync()
	require.NoError(t, err)
	defer done()

	assert.ErrorIs(t, o.UploadBackup(context.Background()), ErrSyncBusy)
	assert.ErrorIs(t, o.DownloadBackup(context.Background()), ErrSyncBusy)
}

func TestDownloadWithoutRemoteBackup(t *testing.T) {
	o, _, store := setupOrchestrator(t)
	signIn(t, o)

	err := o.DownloadBackup(context.Background())

	assert.ErrorIs(t, err, ErrBackupNotFound)
	assert.Nil(t, store.restored)
}

func TestDownloadRestoresDataset(t *testing.T) {
	o, remote, store := setupOrchestrator(t)
	signIn(t, o)

	require.NoError(t, o.UploadBackup(context.Background()))
	require.NoError(t, o.DownloadBackup(context.Background()))

	require.NotNil(t, store.restored)
	assert.Len(t, store.restored.Customers, 1)
	assert.Equal(t, "KA01AB1234", store.restored.Vehicles[0].RegNumber)
	assert.Equal(t, int32(1), remote.downloadCalls.Load())
}

func TestAutoSyncDisabledIsSilentNoOp(t *testing.T) {
	o, remote, _ := setupOrchestrator(t)
	signIn(t, o)

	err := o.AutoSync(context.Background())

	assert.ErrorIs(t, err, ErrAutoSyncDisabled)
	assert.Zero(t, remote.networkCalls())
}

func TestAutoSyncRequiresSession(t *testing.T) {
	o, remote, _ := setupOrchestrator(t)
	require.NoError(t, o.SetAutoSyncEnabled(true))

	err := o.AutoSync(context.Background())

	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, remote.networkCalls())
}

func TestAutoSyncUploadsWhenEnabled(t *testing.T) {
	o, remote, _ := setupOrchestrator(t)
	signIn(t, o)
	require.NoError(t, o.SetAutoSyncEnabled(true))

	require.NoError(t, o.AutoSync(context.Background()))
	assert.Equal(t, int32(1), remote.createCalls.Load())
}

func TestSignOutKeepsPreferences(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	signIn(t, o)
	require.NoError(t, o.SetAutoSyncEnabled(true))

	o.SignOut()

	assert.Equal(t, StateSignedOut, o.State())
	assert.False(t, o.IsSignedIn())
	assert.True(t, o.IsAutoSyncEnabled())
	assert.ErrorIs(t, o.UploadBackup(context.Background()), ErrNotSignedIn)
}

func TestSignInSurvivesConcurrentSignOut(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	token := &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}

	var wg stdsync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = o.SignIn(context.Background(), token)
		}()
		go func() {
			defer wg.Done()
			o.SignOut()
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the orchestrator lands in a
	// coherent state and keeps working.
	signIn(t, o)
	assert.Equal(t, StateSignedIn, o.State())
}

func TestStateFileSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")

	first, err := NewStateFile(path)
	require.NoError(t, err)

	syncedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	require.NoError(t, first.SetLastSync(syncedAt))
	require.NoError(t, first.SetAutoSyncEnabled(true))

	second, err := NewStateFile(path)
	require.NoError(t, err)

	got, ok := second.LastSync()
	require.True(t, ok)
	assert.True(t, got.Equal(syncedAt))
	assert.True(t, second.AutoSyncEnabled())
}
