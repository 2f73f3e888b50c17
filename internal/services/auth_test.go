package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID uuid.UUID, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	svc, err := NewAuthService(log, testSecret)
	if err != nil {
		t.Fatalf("init auth service: %v", err)
	}
	return svc
}

func TestSetContextFromToken(t *testing.T) {
	svc := newAuthService(t)
	userID := uuid.New()

	token := signToken(t, testSecret, userID, requestdata.RoleInstructor, time.Hour)
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatal("expected request data on context")
	}
	if rd.UserID != userID {
		t.Fatalf("unexpected user id: got=%s want=%s", rd.UserID, userID)
	}
	if rd.Role != requestdata.RoleInstructor {
		t.Fatalf("unexpected role: got=%q", rd.Role)
	}
	if !rd.CanAuthor() {
		t.Fatal("instructor should be able to author")
	}
}

func TestSetContextFromTokenDefaultsRole(t *testing.T) {
	svc := newAuthService(t)

	token := signToken(t, testSecret, uuid.New(), "", time.Hour)
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.Role != requestdata.RoleLearner {
		t.Fatalf("expected learner role by default, got %+v", rd)
	}
	if rd.CanAuthor() {
		t.Fatal("learner must not author")
	}
}

func TestSetContextFromTokenRejects(t *testing.T) {
	svc := newAuthService(t)

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, "other-secret", uuid.New(), requestdata.RoleLearner, time.Hour)},
		{name: "expired", token: signToken(t, testSecret, uuid.New(), requestdata.RoleLearner, -time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, err := svc.SetContextFromToken(context.Background(), tc.token)
			if err == nil {
				t.Fatal("expected error")
			}
			if rd := requestdata.GetRequestData(ctx); rd != nil {
				t.Fatalf("rejected token must not attach request data: %+v", rd)
			}
		})
	}
}
