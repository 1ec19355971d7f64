package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"bikebuilders/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Folder and document names are fixed: the remote store holds exactly one
// backup document, overwritten last-writer-wins.
const (
	BackupFolderName = "BikeBuilders"
	BackupFileName   = "bikebuilders_backup.json"
)

var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrAuthFailed       = errors.New("sign in failed")
	ErrSyncBusy         = errors.New("another sync is in progress")
	ErrAutoSyncDisabled = errors.New("auto sync disabled")
	ErrBackupNotFound   = errors.New("no backup found in remote storage")
)

// Session states.
const (
	StateSignedOut      = "signed_out"
	StateAuthenticating = "authenticating"
	StateSignedIn       = "signed_in"
	StateSyncing        = "syncing"
)

// RemoteStore is the four-operation contract the orchestrator needs from
// remote object storage: search by name within a parent, container
// creation (folded into EnsureFolder's find-or-create), metadata+content
// upload, and content download.
type RemoteStore interface {
	EnsureFolder(name string) (string, error)
	FindFile(name, parentID string) (string, error)
	CreateFile(name, parentID, mimeType string, content io.Reader) (string, error)
	UpdateFile(fileID string, content io.Reader) error
	DownloadFile(fileID string) ([]byte, error)
	CurrentToken() (*oauth2.Token, error)
}

// RemoteFactory builds a RemoteStore from a credential. Tests substitute
// an in-memory fake here.
type RemoteFactory func(ctx context.Context, token *oauth2.Token) (RemoteStore, error)

// SnapshotStore is the slice of the repository the orchestrator uses.
type SnapshotStore interface {
	CaptureSnapshot() (*models.Snapshot, error)
	RestoreSnapshot(snap *models.Snapshot) error
}

// Result is the outcome of the most recent sync attempt, observable via
// Status(). Auto-sync callers never block on it.
type Result struct {
	Operation string    `json:"operation"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

type session struct {
	id     string
	token  *oauth2.Token
	remote RemoteStore
}

// Orchestrator keeps exactly one remote backup document current with the
// local dataset. It provides at-most-one-concurrent-sync: overlapping
// upload/download calls fail fast with ErrSyncBusy instead of racing on
// folder resolution or the overwrite.
type Orchestrator struct {
	store     SnapshotStore
	state     *StateFile
	newRemote RemoteFactory
	logger    *slog.Logger

	mu           sync.Mutex // guards session, folderID, sessionState, last
	syncMu       sync.Mutex // held for the duration of one sync
	sess         *session
	folderID     string // memoized for the session's lifetime
	sessionState string
	last         *Result
}

func NewOrchestrator(store SnapshotStore, state *StateFile, newRemote RemoteFactory, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		state:        state,
		newRemote:    newRemote,
		logger:       logger,
		sessionState: StateSignedOut,
	}
}

// SignIn establishes a session from an already-obtained access credential.
// Idempotent when already signed in with a working session; failure
// returns the orchestrator to the signed-out state.
func (o *Orchestrator) SignIn(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return ErrAuthFailed
	}

	o.mu.Lock()
	if o.sess != nil {
		o.mu.Unlock()
		return nil
	}
	o.sessionState = StateAuthenticating
	o.mu.Unlock()

	remote, err := o.newRemote(ctx, token)
	if err != nil {
		o.mu.Lock()
		o.sessionState = StateSignedOut
		o.mu.Unlock()
		return errors.Join(ErrAuthFailed, err)
	}

	sessionID := uuid.New().String()

	o.mu.Lock()
	o.sess = &session{
		id:     sessionID,
		token:  token,
		remote: remote,
	}
	o.sessionState = StateSignedIn
	o.mu.Unlock()

	o.logger.Info("remote sync signed in", "session_id", sessionID)
	return nil
}

// SignOut discards the credential and the cached folder ID. Valid from
// any state.
func (o *Orchestrator) SignOut() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.sess = nil
	o.folderID = ""
	o.sessionState = StateSignedOut
	o.logger.Info("remote sync signed out")
}

// IsSignedIn reports whether the session holds a live credential,
// refreshing it silently when the token source allows.
func (o *Orchestrator) IsSignedIn() bool {
	o.mu.Lock()
	sess := o.sess
	o.mu.Unlock()

	if sess == nil {
		return false
	}

	token, err := sess.remote.CurrentToken()
	if err != nil {
		return false
	}

	o.mu.Lock()
	if o.sess == sess {
		o.sess.token = token
	}
	o.mu.Unlock()
	return token.Valid()
}

// State returns the current session state.
func (o *Orchestrator) State() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionState
}

// Status reports session state, auto-sync flag, last sync time, and the
// last sync result for anyone who wants to inspect fire-and-forget
// outcomes.
func (o *Orchestrator) Status() map[string]any {
	o.mu.Lock()
	state := o.sessionState
	last := o.last
	o.mu.Unlock()

	status := map[string]any{
		"state":             state,
		"auto_sync_enabled": o.state.AutoSyncEnabled(),
	}
	if t, ok := o.state.LastSync(); ok {
		status["last_sync"] = t.Format(time.RFC3339)
	}
	if last != nil {
		status["last_result"] = last
	}
	return status
}

func (o *Orchestrator) SetAutoSyncEnabled(enabled bool) error {
	return o.state.SetAutoSyncEnabled(enabled)
}

func (o *Orchestrator) IsAutoSyncEnabled() bool {
	return o.state.AutoSyncEnabled()
}

// resolveBackupContainer finds or creates the dedicated backup folder,
// memoizing the ID for the session's lifetime.
func (o *Orchestrator) resolveBackupContainer(remote RemoteStore) (string, error) {
	o.mu.Lock()
	if o.folderID != "" {
		id := o.folderID
		o.mu.Unlock()
		return id, nil
	}
	o.mu.Unlock()

	id, err := remote.EnsureFolder(BackupFolderName)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	o.folderID = id
	o.mu.Unlock()
	return id, nil
}

// currentRemote returns the session's remote store, or ErrNotSignedIn.
func (o *Orchestrator) currentRemote() (RemoteStore, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil {
		return nil, ErrNotSignedIn
	}
	return o.sess.remote, nil
}

func (o *Orchestrator) recordResult(operation string, err error) {
	result := &Result{Operation: operation, OK: err == nil, At: time.Now()}
	if err != nil {
		result.Error = err.Error()
	}

	o.mu.Lock()
	o.last = result
	o.mu.Unlock()
}

// beginSync acquires the single in-flight sync slot and flips the session
// state; done() releases both.
func (o *Orchestrator) beginSync() (done func(), err error) {
	if !o.syncMu.TryLock() {
		return nil, ErrSyncBusy
	}

	o.mu.Lock()
	if o.sess == nil {
		o.mu.Unlock()
		o.syncMu.Unlock()
		return nil, ErrNotSignedIn
	}
	o.sessionState = StateSyncing
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		if o.sess != nil {
			o.sessionState = StateSignedIn
		}
		o.mu.Unlock()
		o.syncMu.Unlock()
	}, nil
}

// AutoSync uploads the backup when the flag is on and a session exists;
// otherwise it is a no-op that performs zero network calls.
func (o *Orchestrator) AutoSync(ctx context.Context) error {
	if !o.state.AutoSyncEnabled() {
		return ErrAutoSyncDisabled
	}

	o.mu.Lock()
	signedIn := o.sess != nil
	o.mu.Unlock()
	if !signedIn {
		return ErrNotSignedIn
	}

	return o.UploadBackup(ctx)
}

// AutoSyncAsync runs AutoSync in the background. Failures are logged and
// recorded in Status(), never propagated: callers must not depend on the
// result for the correctness of the mutation that triggered it.
func (o *Orchestrator) AutoSyncAsync() {
	go func() {
		err := o.AutoSync(context.Background())
		switch {
		case err == nil:
			o.logger.Debug("auto sync completed")
		case errors.Is(err, ErrAutoSyncDisabled), errors.Is(err, ErrNotSignedIn):
			// Expected no-ops, not failures.
		default:
			o.logger.Warn("auto sync failed", "error", err)
		}
	}()
}
