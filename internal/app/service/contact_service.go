package service

import (
	"errors"
	"fmt"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/minkwan/storefront-backend/pkg/mailer"
)

var ErrInvalidInquiryType = errors.New("unknown inquiry type")

type ContactService interface {
	SubmitContactForm(submission *model.ContactFormSubmission) error
	ListSubmissions(filter repository.ContactFilter) ([]model.ContactFormSubmission, int64, error)
	GetSubmissionByID(id uint) (*model.ContactFormSubmission, error)
	InquiryTypes() []model.InquiryType
}

type contactService struct {
	contactRepo repository.ContactRepository
	mail        *mailer.Mailer
}

func NewContactService(contactRepo repository.ContactRepository, mail *mailer.Mailer) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		mail:        mail,
	}
}

func (s *contactService) SubmitContactForm(submission *model.ContactFormSubmission) error {
	if !model.ValidInquiryType(submission.InquiryType) {
		logger.Warn("Contact form rejected: unknown inquiry type", map[string]interface{}{
			"inquiry_type": submission.InquiryType,
		})
		return ErrInvalidInquiryType
	}

	if err := s.contactRepo.Create(submission); err != nil {
		return err
	}

	logger.Info("Contact form submitted", map[string]interface{}{
		"submission_id": submission.ID,
		"inquiry_type":  submission.InquiryType,
	})

	if s.mail != nil && s.mail.Enabled() {
		body := fmt.Sprintf(
			"Hi %s,\n\nWe received your %s inquiry and will get back to you within two business days.\n\nYour message:\n%s\n",
			submission.Name, submission.InquiryType, submission.Message,
		)
		s.mail.SendAsync(submission.Email, "We received your message", body)
	}
	return nil
}

func (s *contactService) ListSubmissions(filter repository.ContactFilter) ([]model.ContactFormSubmission, int64, error) {
	return s.contactRepo.FindWithFilter(filter)
}

func (s *contactService) GetSubmissionByID(id uint) (*model.ContactFormSubmission, error) {
	return s.contactRepo.FindByID(id)
}

func (s *contactService) InquiryTypes() []model.InquiryType {
	return model.InquiryTypes()
}
