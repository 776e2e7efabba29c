package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slma/membership/internal/membership/mail"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/internal/membership/store/drivers/sqlite"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/jwtx"
	"github.com/slma/membership/pkg/memberapi"
	"github.com/slma/membership/pkg/slogx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// capturingMailer remembers the last token of each kind so tests can walk
// the emailed links.
type capturingMailer struct {
	verificationToken string
	resetToken        string
}

var _ mail.Mailer = (*capturingMailer)(nil)

func (m *capturingMailer) SendVerification(_ context.Context, to, name, token string) error {
	m.verificationToken = token
	return nil
}

func (m *capturingMailer) SendPasswordReset(_ context.Context, to, name, token string) error {
	m.resetToken = token
	return nil
}

func (m *capturingMailer) SendWelcome(_ context.Context, to, name, membershipID string) error {
	return nil
}

type testEnv struct {
	server *httptest.Server
	mailer *capturingMailer
	signer jwtx.Signer
	ip     int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewHS256([]byte("test-secret-32-bytes-long-enough"), "membership-test", time.Hour)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Level: "error", Format: "text"})
	mailer := &capturingMailer{}

	router := NewRouter(signer, signer, "test", "dev", st, logger)
	router.IdentityService = &service.IdentityService{Store: st, Signer: signer, Mailer: mailer}
	router.VerificationService = &service.VerificationService{Store: st, Mailer: mailer}
	router.ResetService = &service.PasswordResetService{Store: st, Mailer: mailer}
	router.ProfileService = &service.ProfileService{Store: st}
	router.EventService = &service.EventService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, mailer: mailer, signer: signer}
}

// request sends one JSON request. Each testEnv hands out a unique client
// IP per call so per-IP rate limiting never interferes across tests.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.ip++
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.%d.%d", e.ip/250, e.ip%250))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func (e *testEnv) register(t *testing.T, email string) memberapi.AuthResponse {
	t.Helper()
	resp, raw := e.request(t, http.MethodPost, "/auth/register", "", memberapi.RegisterRequest{
		Name:     "Test Member",
		Email:    email,
		Password: "correct-horse",
		Phone:    "+251911000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var out memberapi.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	out := env.register(t, "new@example.com")
	require.True(t, out.Success)
	require.NotEmpty(t, out.Token)
	require.NotNil(t, out.User)
	require.Equal(t, "new@example.com", out.User.Email)
	require.Equal(t, "member", out.User.Role)
	require.False(t, out.User.EmailVerified)
	require.NotEmpty(t, out.User.Membership.MembershipID)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dup@example.com")

	resp, raw := env.request(t, http.MethodPost, "/auth/register", "", memberapi.RegisterRequest{
		Name:     "Second",
		Email:    "dup@example.com",
		Password: "other-password",
		Phone:    "+251911000001",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out memberapi.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.False(t, out.Success)
	require.Contains(t, out.Errors, "email")
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.request(t, http.MethodPost, "/auth/register", "", memberapi.RegisterRequest{
		Email:    "bad",
		Password: "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out memberapi.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Contains(t, out.Errors, "name")
	require.Contains(t, out.Errors, "email")
	require.Contains(t, out.Errors, "password")
	require.Contains(t, out.Errors, "phone")
}

func TestLoginEndpoint_FailureBodiesAreIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "probe@example.com")

	unknownResp, unknownRaw := env.request(t, http.MethodPost, "/auth/login", "", memberapi.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	wrongResp, wrongRaw := env.request(t, http.MethodPost, "/auth/login", "", memberapi.LoginRequest{
		Email:    "probe@example.com",
		Password: "wrong-password",
	})

	// Unknown email and wrong password are indistinguishable on the wire.
	require.Equal(t, http.StatusUnauthorized, unknownResp.StatusCode)
	require.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	require.JSONEq(t, string(unknownRaw), string(wrongRaw))

	var out memberapi.ErrorResponse
	require.NoError(t, json.Unmarshal(wrongRaw, &out))
	require.Equal(t, "Invalid credentials", out.Message)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "verify@example.com")
	token := env.mailer.verificationToken
	require.NotEmpty(t, token)

	resp, raw := env.request(t, http.MethodGet, "/auth/verify-email/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out memberapi.UserResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.True(t, out.User.EmailVerified)

	// Second redemption fails: the token was consumed.
	resp, _ = env.request(t, http.MethodGet, "/auth/verify-email/"+token, "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForgotPasswordEndpoint_BodiesAreIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "member@example.com")

	knownResp, knownRaw := env.request(t, http.MethodPost, "/auth/forgot-password", "", memberapi.ForgotPasswordRequest{
		Email: "member@example.com",
	})
	unknownResp, unknownRaw := env.request(t, http.MethodPost, "/auth/forgot-password", "", memberapi.ForgotPasswordRequest{
		Email: "stranger@example.com",
	})

	require.Equal(t, http.StatusOK, knownResp.StatusCode)
	require.Equal(t, http.StatusOK, unknownResp.StatusCode)
	require.Equal(t, string(knownRaw), string(unknownRaw))
}

func TestResetPasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "reset@example.com")

	env.request(t, http.MethodPost, "/auth/forgot-password", "", memberapi.ForgotPasswordRequest{
		Email: "reset@example.com",
	})
	token := env.mailer.resetToken
	require.NotEmpty(t, token)

	resp, raw := env.request(t, http.MethodPut, "/auth/reset-password/"+token, "", memberapi.ResetPasswordRequest{
		Password: "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	// New password works, old one does not.
	loginResp, _ := env.request(t, http.MethodPost, "/auth/login", "", memberapi.LoginRequest{
		Email:    "reset@example.com",
		Password: "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	oldResp, _ := env.request(t, http.MethodPost, "/auth/login", "", memberapi.LoginRequest{
		Email:    "reset@example.com",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusUnauthorized, oldResp.StatusCode)

	// Token cannot be replayed.
	resp, _ = env.request(t, http.MethodPut, "/auth/reset-password/"+token, "", memberapi.ResetPasswordRequest{
		Password: "yet-another-pass",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResendVerificationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "resend@example.com")
	first := env.mailer.verificationToken

	resp, _ := env.request(t, http.MethodPost, "/auth/resend-verification", "", memberapi.ResendVerificationRequest{
		Email: "resend@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEqual(t, first, env.mailer.verificationToken)

	resp, _ = env.request(t, http.MethodPost, "/auth/resend-verification", "", memberapi.ResendVerificationRequest{
		Email: "ghost@example.com",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	auth := env.register(t, "me@example.com")

	resp, raw := env.request(t, http.MethodGet, "/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out memberapi.UserResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "me@example.com", out.User.Email)

	// No token rejects with 401.
	resp, _ = env.request(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token rejects with 401.
	resp, _ = env.request(t, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	auth := env.register(t, "update@example.com")

	name := "Renamed Member"
	woreda := "sankura"
	resp, raw := env.request(t, http.MethodPut, "/auth/update-profile", auth.Token, memberapi.UpdateProfileRequest{
		Name:   &name,
		Woreda: &woreda,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out memberapi.UserResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "Renamed Member", out.User.Name)
	require.Equal(t, "sankura", out.User.Woreda)
	require.Equal(t, "update@example.com", out.User.Email)
}

func TestEventEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	guest := env.register(t, "guest@example.com")

	resp, raw := env.request(t, http.MethodPost, "/events", owner.Token, memberapi.CreateEventRequest{
		Title:    "Community Iftar",
		Type:     "religious",
		StartsAt: time.Now().UTC().Add(48 * time.Hour),
		Capacity: 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created memberapi.EventResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	eventID := created.Event.ID

	// Anyone can read the event, no token required.
	resp, raw = env.request(t, http.MethodGet, "/events/"+eventID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = env.request(t, http.MethodPost, "/events/"+eventID+"/attend", guest.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var attended memberapi.EventResponse
	require.NoError(t, json.Unmarshal(raw, &attended))
	require.Contains(t, attended.Event.Attendees, guest.User.ID)

	// Joining twice conflicts.
	resp, _ = env.request(t, http.MethodPost, "/events/"+eventID+"/attend", guest.Token, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw = env.request(t, http.MethodDelete, "/events/"+eventID+"/attend", guest.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var left memberapi.EventResponse
	require.NoError(t, json.Unmarshal(raw, &left))
	require.NotContains(t, left.Event.Attendees, guest.User.ID)

	// Creating events requires authentication.
	resp, _ = env.request(t, http.MethodPost, "/events", "", memberapi.CreateEventRequest{
		Title: "Anonymous", Type: "social", StartsAt: time.Now().Add(time.Hour),
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateEventEndpoint_UnknownRoleForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")

	// A valid token whose role claim is outside the known set clears
	// authentication but not the role gate.
	token, err := env.signer.Issue(owner.User.ID, "guest")
	require.NoError(t, err)

	resp, raw := env.request(t, http.MethodPost, "/events", token, memberapi.CreateEventRequest{
		Title:    "Sneaky Meetup",
		Type:     "social",
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode, string(raw))

	var out memberapi.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.False(t, out.Success)
	require.Equal(t, "Insufficient permissions for this route", out.Message)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.request(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var live memberapi.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &live))
	require.Equal(t, "ok", live.Status)

	resp, raw = env.request(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ready memberapi.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &ready))
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
