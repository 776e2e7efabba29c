package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/internal/membership/store/drivers/sqlite"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()
	signer, err := jwtx.NewHS256([]byte("test-secret-32-bytes-long-enough"), "membership-test", time.Hour)
	require.NoError(t, err)
	return signer
}

// recordingMailer captures outgoing mail so tests can assert on the
// tokens the flows hand to members.
type recordingMailer struct {
	mu sync.Mutex

	verifications []recordedMail
	resets        []recordedMail
	welcomes      []recordedMail

	failAll bool
}

type recordedMail struct {
	To    string
	Token string
}

func (m *recordingMailer) SendVerification(ctx context.Context, to, name, token string) error {
	return m.record(&m.verifications, to, token)
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.record(&m.resets, to, token)
}

func (m *recordingMailer) SendWelcome(ctx context.Context, to, name, membershipID string) error {
	return m.record(&m.welcomes, to, "")
}

func (m *recordingMailer) record(dst *[]recordedMail, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return context.DeadlineExceeded
	}
	*dst = append(*dst, recordedMail{To: to, Token: token})
	return nil
}

func deactivateUser(t *testing.T, s store.Store, userID string) {
	t.Helper()
	require.NoError(t, s.Users().SetActive(context.Background(), userID, false))
}

func (m *recordingMailer) lastVerification(t *testing.T) recordedMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.verifications)
	return m.verifications[len(m.verifications)-1]
}

func (m *recordingMailer) lastReset(t *testing.T) recordedMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.resets)
	return m.resets[len(m.resets)-1]
}
