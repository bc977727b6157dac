package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/pkg/config"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-signing-key",
		Issuer:            "agrisetu-api",
		ExpirationMinutes: 20,
	}
}

func TestMintedTokenRoundTrips(t *testing.T) {
	cfg := jwtTestConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleFarmer,
		JTI:    "jti-roundtrip",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id %s, want %s", claims.UserID, userID)
	}
	if claims.Role != enums.UserRoleFarmer {
		t.Fatalf("role %s, want farmer", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer %s, want %s", claims.Issuer, cfg.Issuer)
	}
	if claims.ID != "jti-roundtrip" {
		t.Fatalf("jti %s, want jti-roundtrip", claims.ID)
	}

	wantExp := now.Add(20 * time.Minute)
	if gap := claims.ExpiresAt.Sub(wantExp); gap < -time.Second || gap > time.Second {
		t.Fatalf("exp %v, want within 1s of %v", claims.ExpiresAt.UTC(), wantExp)
	}
}

func TestMintGeneratesJTIWhenMissing(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("jti was not generated")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("jti %q is not a uuid: %v", claims.ID, err)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleFarmer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"0"); err == nil {
		t.Fatal("tampered token parsed")
	}

	wrongKey := cfg
	wrongKey.Secret = "some-other-signing-key"
	if _, err := ParseAccessToken(wrongKey, token); err == nil {
		t.Fatal("token parsed with wrong secret")
	}
}

func TestParseRejectsExpiredButAllowExpiredAccepts(t *testing.T) {
	cfg := jwtTestConfig()
	issuedAt := time.Now().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, issuedAt, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleFarmer,
		JTI:    "jti-expired",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expired token parsed")
	} else if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("allow-expired parse: %v", err)
	}
	if claims.ID != "jti-expired" {
		t.Fatalf("jti %s, want jti-expired", claims.ID)
	}
}

func TestMintRejectsBadInputs(t *testing.T) {
	now := time.Now()
	good := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleFarmer}

	noSecret := jwtTestConfig()
	noSecret.Secret = ""
	if _, err := MintAccessToken(noSecret, now, good); err == nil {
		t.Fatal("expected error without secret")
	}

	noIssuer := jwtTestConfig()
	noIssuer.Issuer = ""
	if _, err := MintAccessToken(noIssuer, now, good); err == nil {
		t.Fatal("expected error without issuer")
	}

	if _, err := MintAccessToken(jwtTestConfig(), now, AccessTokenPayload{UserID: uuid.New(), Role: "VENDOR"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
