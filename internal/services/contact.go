package service

import (
	"context"
	"log/slog"

	"github.com/ddkspices/storefront/internal/api/middleware"
	"github.com/ddkspices/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// ContactService handles the contact form. Submissions are acknowledged
// locally and logged; no mail provider or other backend is involved.
type ContactService struct {
	policy *bluemonday.Policy
}

func NewContactService() *ContactService {
	return &ContactService{policy: bluemonday.StrictPolicy()}
}

func (s *ContactService) SubmitInquiry(ctx context.Context, req *models.ContactRequest) *models.ContactReceipt {
	logger := middleware.LoggerFromContext(ctx)

	name := s.policy.Sanitize(req.Name)
	message := s.policy.Sanitize(req.Message)

	logger.Info("Contact inquiry received",
		slog.String("name", name),
		slog.String("phone", req.Phone),
		slog.String("email", req.Email),
		slog.Int("message_length", len(message)),
	)

	return &models.ContactReceipt{
		Status:  "received",
		Message: "Dhanyavaad! Hum aapke contact karenge.",
	}
}
