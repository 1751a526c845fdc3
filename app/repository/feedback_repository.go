package repository

import (
	"context"

	"complaint-tracker-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackRepository menyimpan feedback (1:1 dengan complaint).
type FeedbackRepository interface {
	// Create gagal dengan ErrDuplicate bila complaint sudah punya feedback
	// (unique index complaint_id).
	Create(ctx context.Context, fb *model.Feedback) error
	FindByComplaintID(ctx context.Context, complaintID uuid.UUID) (*model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Create(fb).Error)
}

func (r *feedbackRepository) FindByComplaintID(ctx context.Context, complaintID uuid.UUID) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		First(&fb).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &fb, nil
}
