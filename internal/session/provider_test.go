package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthenticator returns a state with a session cookie per actor
type fakeAuthenticator struct {
	calls   atomic.Int32
	expires float64
	err     error
	release chan struct{}
}

func (a *fakeAuthenticator) Authenticate(ctx context.Context, actorID string) (*State, error) {
	a.calls.Add(1)
	if a.release != nil {
		<-a.release
	}
	if a.err != nil {
		return nil, a.err
	}
	return &State{Cookies: []Cookie{{Name: CookieName, Value: "token-" + actorID, Domain: "localhost", Path: "/", Expires: a.expires}}}, nil
}

func TestProvider_EnsureCachesAndPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	auth := &fakeAuthenticator{expires: -1}
	p := NewProvider(dir, auth)

	first, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)
	second, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, auth.calls.Load())
	assert.Equal(t, p.StatePath("worker-0"), first.StatePath)
	assert.Equal(t, "token-worker-0", first.State.Cookie(CookieName).Value)

	info, err := os.Stat(first.StatePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A new provider on the same directory reuses the file.
	reloaded, err := NewProvider(dir, auth).Ensure(ctx, "worker-0")
	require.NoError(t, err)
	assert.Equal(t, first.State, reloaded.State)
	assert.EqualValues(t, 1, auth.calls.Load())
}

func TestProvider_ActorsAreIndependent(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{expires: -1}
	p := NewProvider(t.TempDir(), auth)

	a, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)
	b, err := p.Ensure(ctx, "worker-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.StatePath, b.StatePath)
	assert.EqualValues(t, 2, auth.calls.Load())
}

func TestProvider_ConcurrentEnsureAuthenticatesOnce(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{expires: -1, release: make(chan struct{})}
	p := NewProvider(t.TempDir(), auth)

	var wg sync.WaitGroup
	results := make([]*Session, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := p.Ensure(ctx, "worker-0")
			assert.NoError(t, err)
			results[i] = s
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(auth.release)
	wg.Wait()

	assert.EqualValues(t, 1, auth.calls.Load())
	for _, s := range results {
		assert.Same(t, results[0], s)
	}
}

func TestProvider_ExpiredStateReauthenticates(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	auth := &fakeAuthenticator{expires: float64(now.Add(time.Hour).Unix())}
	p := NewProvider(t.TempDir(), auth)
	p.now = func() time.Time { return now }

	_, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	auth.expires = float64(now.Add(time.Hour).Unix())
	s, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)

	assert.EqualValues(t, 2, auth.calls.Load())
	assert.True(t, s.State.Valid(CookieName, now))
}

func TestProvider_Invalidate(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{expires: -1}
	p := NewProvider(t.TempDir(), auth)

	s, err := p.Ensure(ctx, "worker-0")
	require.NoError(t, err)
	require.NoError(t, p.Invalidate("worker-0"))

	_, err = os.Stat(s.StatePath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = p.Ensure(ctx, "worker-0")
	require.NoError(t, err)
	assert.EqualValues(t, 2, auth.calls.Load())

	// Invalidating an unknown actor is not an error.
	assert.NoError(t, p.Invalidate("worker-9"))
}

func TestProvider_UnreadableStateReauthenticates(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{expires: -1}
	p := NewProvider(t.TempDir(), auth)
	require.NoError(t, os.WriteFile(p.StatePath("worker-0"), []byte("{not json"), 0o600))

	s, err := p.Ensure(ctx, "worker-0")

	require.NoError(t, err)
	assert.EqualValues(t, 1, auth.calls.Load())
	reread, err := ReadState(s.StatePath)
	require.NoError(t, err)
	assert.Equal(t, s.State, reread)
}

func TestProvider_Errors(t *testing.T) {
	ctx := context.Background()
	loginErr := errors.New("login page unavailable")

	tests := []struct {
		name    string
		actor   string
		auth    *fakeAuthenticator
		wantErr error
	}{
		{"invalid actor", "../etc", &fakeAuthenticator{}, ErrInvalidActor},
		{"empty actor", "", &fakeAuthenticator{}, ErrInvalidActor},
		{"authenticator failure", "worker-0", &fakeAuthenticator{err: loginErr}, loginErr},
		{"no session cookie", "worker-0", &fakeAuthenticator{expires: 1}, ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(t.TempDir(), tt.auth)

			_, err := p.Ensure(ctx, tt.actor)

			assert.ErrorIs(t, err, tt.wantErr)
			_, statErr := os.Stat(p.StatePath(tt.actor))
			assert.True(t, os.IsNotExist(statErr), "no state file expected")
		})
	}
}
