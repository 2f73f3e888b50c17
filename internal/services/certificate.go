package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

// CertificateIssuer is the external collaborator that renders and delivers a
// completion certificate. The aggregator calls it at most once per
// enrollment, behind a bounded retry policy.
type CertificateIssuer interface {
	Issue(ctx context.Context, learnerID, courseID uuid.UUID) error
}

type logCertificateIssuer struct {
	log *logger.Logger
}

// NewLogCertificateIssuer stands in for deployments without a certificate
// provider wired up: it records the issuance and succeeds.
func NewLogCertificateIssuer(baseLog *logger.Logger) CertificateIssuer {
	return &logCertificateIssuer{log: baseLog.With("service", "CertificateIssuer")}
}

func (i *logCertificateIssuer) Issue(ctx context.Context, learnerID, courseID uuid.UUID) error {
	i.log.Info("certificate issued", "learner_id", learnerID, "course_id", courseID)
	return nil
}
