package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

var testSecret = []byte("test-secret-at-least-32-characters!!")

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{Secret: testSecret, Issuer: "leadflow"})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService()
	want := policy.Claims{
		Role:     domain.RoleCounselor,
		TenantID: uuid.New(),
		UserID:   uuid.New(),
	}

	token, err := svc.IssueToken(want, time.Now())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != want {
		t.Errorf("Verify() = %+v, want %+v", got, want)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestTokenService()
	claims := policy.Claims{Role: domain.RoleAdmin, TenantID: uuid.New(), UserID: uuid.New()}

	token, err := svc.IssueToken(claims, time.Now().Add(-2*DefaultTokenTTL))
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	claims := policy.Claims{Role: domain.RoleAdmin, TenantID: uuid.New(), UserID: uuid.New()}
	token, err := NewTokenService(TokenConfig{Secret: []byte("another-secret-of-sufficient-length"), Issuer: "leadflow"}).IssueToken(claims, time.Now())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := newTestTokenService().Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	claims := policy.Claims{Role: domain.RoleAdmin, TenantID: uuid.New(), UserID: uuid.New()}
	token, err := NewTokenService(TokenConfig{Secret: testSecret, Issuer: "someone-else"}).IssueToken(claims, time.Now())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := newTestTokenService().Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func sign(t *testing.T, claims TokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestVerify_ClaimShapes(t *testing.T) {
	svc := newTestTokenService()
	tenantID := uuid.New()
	userID := uuid.New()
	registered := func(sub string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "leadflow",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	tests := []struct {
		name    string
		claims  TokenClaims
		wantErr error
	}{
		{
			name:   "user id from subject",
			claims: TokenClaims{RegisteredClaims: registered(userID.String()), Role: "admin", TenantID: tenantID.String()},
		},
		{
			name:    "unknown role",
			claims:  TokenClaims{RegisteredClaims: registered(userID.String()), Role: "service_role", TenantID: tenantID.String()},
			wantErr: domain.ErrInvalidRole,
		},
		{
			name:    "bad tenant",
			claims:  TokenClaims{RegisteredClaims: registered(userID.String()), Role: "admin", TenantID: "acme"},
			wantErr: domain.ErrInvalidToken,
		},
		{
			name:    "missing user",
			claims:  TokenClaims{RegisteredClaims: registered(""), Role: "admin", TenantID: tenantID.String()},
			wantErr: domain.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Verify(sign(t, tt.claims))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got.UserID != userID || got.TenantID != tenantID {
				t.Errorf("Verify() = %+v", got)
			}
		})
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "leadflow", Subject: uuid.NewString()},
		Role:             "admin",
		TenantID:         uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestTokenService().Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
