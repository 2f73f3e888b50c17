package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

func authorCtx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   requestdata.RoleInstructor,
	})
}

// Config validation runs before the service touches storage, so these cases
// need no database.
func TestConfigureAssessment_RejectsBadConfig(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	svc := NewContentService(nil, log, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	cases := []struct {
		name string
		cfg  domain.Assessment
	}{
		{
			name: "negative max attempts",
			cfg:  domain.Assessment{Kind: domain.AssessmentQuiz, MaxAttempts: -1},
		},
		{
			name: "passing score above 100",
			cfg:  domain.Assessment{Kind: domain.AssessmentQuiz, PassingScore: 101},
		},
		{
			name: "unknown kind",
			cfg:  domain.Assessment{Kind: "pop-quiz"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ConfigureAssessment(authorCtx(), uuid.New(), tc.cfg)
			if !apierr.Is(err, apierr.CodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}
