package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slma/membership/internal/membership/domain"
)

func registerTestUser(t *testing.T, svc *IdentityService, email string) domain.User {
	t.Helper()
	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Abdi Kedir",
		Email:    email,
		Password: "correct-horse",
		Phone:    "+251911000000",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return user
}

func TestRegister(t *testing.T) {
	st := newTestStore(t)
	mailer := &recordingMailer{}
	signer := newTestSigner(t)
	svc := &IdentityService{Store: st, Signer: signer, Mailer: mailer}
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "Abdi Kedir",
		Email:    "Abdi@Example.COM",
		Password: "correct-horse",
		Phone:    "+251911123456",
		Woreda:   "silti",
		Language: "am",
	})
	require.NoError(t, err)

	require.Equal(t, "abdi@example.com", user.Email)
	require.Equal(t, domain.RoleMember, user.Role)
	require.Equal(t, "silti", user.Woreda)
	require.Equal(t, "am", user.Language)
	require.False(t, user.EmailVerified)
	require.True(t, user.IsActive)

	year := time.Now().UTC().Year()
	require.Equal(t, domain.FormatMembershipID(year, 1), user.Membership.MembershipID)

	// The session token identifies the new user.
	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, string(domain.RoleMember), claims.Role)

	// The verification email carried the stored token.
	sent := mailer.lastVerification(t)
	require.Equal(t, "abdi@example.com", sent.To)
	stored, err := st.Users().GetUserByVerificationToken(ctx, sent.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestRegister_MembershipIDSequence(t *testing.T) {
	st := newTestStore(t)
	svc := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: &recordingMailer{}}

	first := registerTestUser(t, svc, "first@example.com")
	second := registerTestUser(t, svc, "second@example.com")

	year := time.Now().UTC().Year()
	require.Equal(t, domain.FormatMembershipID(year, 1), first.Membership.MembershipID)
	require.Equal(t, domain.FormatMembershipID(year, 2), second.Membership.MembershipID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	svc := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: &recordingMailer{}}

	registerTestUser(t, svc, "taken@example.com")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "Taken@example.com",
		Password: "other-password",
		Phone:    "+251911000001",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc := &IdentityService{Store: newTestStore(t), Signer: newTestSigner(t), Mailer: &recordingMailer{}}

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "",
		Email:    "not-an-email",
		Password: "short",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "password")
	require.Contains(t, verr.Fields, "phone")
}

func TestRegister_MissingPhone(t *testing.T) {
	svc := &IdentityService{Store: newTestStore(t), Signer: newTestSigner(t), Mailer: &recordingMailer{}}

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Abdi Kedir",
		Email:    "abdi@example.com",
		Password: "correct-horse",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "phone")
	require.NotContains(t, verr.Fields, "name")
}

func TestRegister_MailFailureDoesNotFailRegistration(t *testing.T) {
	st := newTestStore(t)
	mailer := &recordingMailer{failAll: true}
	svc := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: mailer}

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Abdi Kedir",
		Email:    "abdi@example.com",
		Password: "correct-horse",
		Phone:    "+251911123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = st.Users().GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	signer := newTestSigner(t)
	svc := &IdentityService{Store: st, Signer: signer, Mailer: &recordingMailer{}}
	ctx := context.Background()

	registerTestUser(t, svc, "login@example.com")

	user, token, err := svc.Login(ctx, "Login@Example.com", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	st := newTestStore(t)
	svc := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: &recordingMailer{}}
	ctx := context.Background()

	registerTestUser(t, svc, "known@example.com")

	// Unknown email and wrong password surface the identical error.
	_, _, unknownErr := svc.Login(ctx, "unknown@example.com", "whatever-pass")
	_, _, wrongErr := svc.Login(ctx, "known@example.com", "wrong-password")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	st := newTestStore(t)
	svc := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: &recordingMailer{}}
	ctx := context.Background()

	user := registerTestUser(t, svc, "inactive@example.com")

	// Deactivate directly; there is no self-service deactivation flow.
	deactivateUser(t, st, user.ID)

	_, _, err := svc.Login(ctx, "inactive@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrAccountInactive)
}
