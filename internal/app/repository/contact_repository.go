package repository

import (
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ContactFilter narrows contact submissions for the admin inbox.
type ContactFilter struct {
	InquiryType   *model.InquiryType
	Email         string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}

var contactSortColumns = map[string]string{
	"createdat":  "created_at",
	"created_at": "created_at",
	"email":      "email",
}

// ContactRepository stores submissions append-only. There is no update
// path; a submission is a point-in-time record.
type ContactRepository interface {
	Create(submission *model.ContactFormSubmission) error
	FindByID(id uint) (*model.ContactFormSubmission, error)
	FindWithFilter(filter ContactFilter) ([]model.ContactFormSubmission, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(submission *model.ContactFormSubmission) error {
	logger.Debug("Creating contact submission in database", map[string]interface{}{
		"email":        submission.Email,
		"inquiry_type": submission.InquiryType,
	})

	if err := r.db.Create(submission).Error; err != nil {
		logger.Error("Failed to create contact submission", err, map[string]interface{}{
			"email": submission.Email,
		})
		return err
	}
	return nil
}

func (r *contactRepository) FindByID(id uint) (*model.ContactFormSubmission, error) {
	var submission model.ContactFormSubmission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *contactRepository) FindWithFilter(filter ContactFilter) ([]model.ContactFormSubmission, int64, error) {
	req := filter.Page.Normalize()

	query := r.db.Model(&model.ContactFormSubmission{})

	if filter.InquiryType != nil {
		query = query.Where("contact_form_submissions.inquiry_type = ?", *filter.InquiryType)
	}
	if filter.Email != "" {
		query = query.Where("contact_form_submissions.email = ?", filter.Email)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("contact_form_submissions.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("contact_form_submissions.created_at <= ?", *filter.CreatedBefore)
	}

	query = applySort(query, "contact_form_submissions", req, contactSortColumns)

	var submissions []model.ContactFormSubmission
	total, err := paginate(query, req, &submissions)
	if err != nil {
		logger.Error("Failed to find contact submissions with filter", err)
		return nil, 0, err
	}
	return submissions, total, nil
}
