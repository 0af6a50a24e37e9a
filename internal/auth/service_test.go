package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/starpathlabs/constellation-backend/internal/auth"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
)

func newService(t *testing.T, tx *gorm.DB) *auth.Service {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret-key")
	log := testutil.Logger(t)
	svc, err := auth.NewService(tx, repos.NewUserRepo(tx, log), repos.NewUserTokenRepo(tx, log), log)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr, got %v", err)
	}
	if ae.Status != status {
		t.Fatalf("expected status %d, got %d (%v)", status, ae.Status, err)
	}
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newService(t, tx)

	user, pair, err := svc.Register(ctx, auth.RegisterInput{
		Email:     "  Alice@Example.COM ",
		Password:  "correct horse",
		FirstName: "Alice",
		LastName:  "Ng",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "correct horse" {
		t.Fatalf("password stored in plaintext")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", pair)
	}

	got, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated wrong user: %s", got.ID)
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newService(t, tx)

	in := auth.RegisterInput{Email: "dup@example.com", Password: "long enough", FirstName: "A"}
	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := svc.Register(ctx, in)
	expectStatus(t, err, http.StatusBadRequest)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newService(t, tx)

	_, _, err := svc.Register(context.Background(), auth.RegisterInput{
		Email: "weak@example.com", Password: "short", FirstName: "A",
	})
	expectStatus(t, err, http.StatusBadRequest)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newService(t, tx)

	if _, _, err := svc.Register(ctx, auth.RegisterInput{
		Email: "login@example.com", Password: "right password", FirstName: "A",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "login@example.com", "wrong password"); err == nil {
		t.Fatalf("expected login failure")
	} else {
		expectStatus(t, err, http.StatusUnauthorized)
	}

	user, pair, err := svc.Login(ctx, "login@example.com", "right password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || pair.AccessToken == "" {
		t.Fatalf("expected user and tokens")
	}
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newService(t, tx)

	_, pair, err := svc.Register(ctx, auth.RegisterInput{
		Email: "logout@example.com", Password: "long enough", FirstName: "A",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// JWT is still cryptographically valid, but the server-side row is gone.
	_, err = svc.Authenticate(ctx, pair.AccessToken)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRefresh_RotatesAndInvalidatesOldPair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newService(t, tx)

	_, pair, err := svc.Register(ctx, auth.RegisterInput{
		Email: "refresh@example.com", Password: "long enough", FirstName: "A",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.AccessToken == pair.AccessToken || next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh did not rotate the pair")
	}

	// Old refresh token is single-use.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	expectStatus(t, err, http.StatusUnauthorized)

	// Old access token row was deleted with the rotation.
	_, err = svc.Authenticate(ctx, pair.AccessToken)
	expectStatus(t, err, http.StatusUnauthorized)

	if _, err := svc.Authenticate(ctx, next.AccessToken); err != nil {
		t.Fatalf("new access token should authenticate: %v", err)
	}
}

func TestAuthenticate_GarbageTokenUnauthorized(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newService(t, tx)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	expectStatus(t, err, http.StatusUnauthorized)
}
