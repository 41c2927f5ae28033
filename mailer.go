package main

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers account email. Real delivery is a deployment concern; the
// default implementation only logs the link.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

type logMailer struct {
	log *zap.Logger
}

func (m logMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.log.Info("password reset link issued", zap.String("email", email), zap.String("link", link))
	return nil
}
