package service

import (
	"context"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/utils"
)

// FeedbackInput dipakai oleh GiveFeedback dan Reopen.
// max=500 dihitung per karakter (rune), bukan byte.
type FeedbackInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// ValidateFeedback adalah satu-satunya aturan validasi feedback:
// rating wajib 1..5, comment opsional maksimal 500 karakter.
func ValidateFeedback(in FeedbackInput) error {
	return utils.ValidateStruct(in, "Invalid feedback")
}

// FeedbackService mengelola feedback student atas complaint yang sudah RESOLVED.
type FeedbackService interface {
	GiveFeedback(ctx context.Context, caller Caller, complaintID string, in FeedbackInput) (*model.Feedback, error)
	GetFeedback(ctx context.Context, caller Caller, complaintID string) (*model.Feedback, error)
}

type feedbackService struct {
	complaints repository.ComplaintRepository
	feedbacks  repository.FeedbackRepository
	policy     *Policy
	recorder   lifecycleRecorder
}

func NewFeedbackService(
	complaints repository.ComplaintRepository,
	feedbacks repository.FeedbackRepository,
	events repository.EventRepository,
	publisher repository.EventPublisher,
	policy *Policy,
) FeedbackService {
	return &feedbackService{
		complaints: complaints,
		feedbacks:  feedbacks,
		policy:     policy,
		recorder:   newLifecycleRecorder(events, publisher),
	}
}

// GiveFeedback: create-once, hanya pemilik complaint, hanya saat RESOLVED.
func (s *feedbackService) GiveFeedback(ctx context.Context, caller Caller, complaintID string, in FeedbackInput) (fb *model.Feedback, err error) {
	defer func() { err = observe("feedback", err) }()

	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	if err := ValidateFeedback(in); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(caller, objFeedback, actCreate, "Only students can give feedback"); err != nil {
		return nil, err
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "")
	}
	if !complaint.IsOwnedBy(caller.ID) {
		return nil, utils.NewForbiddenError("You can only give feedback on your own complaint")
	}
	if !complaint.AcceptsFeedback() {
		return nil, utils.NewConflictError("Feedback allowed only after complaint is resolved")
	}
	if complaint.Feedback != nil {
		return nil, utils.NewConflictError("Feedback already submitted for this complaint")
	}

	fb = &model.Feedback{
		ComplaintID: id,
		StudentID:   caller.ID,
		Rating:      in.Rating,
		Comment:     in.Comment,
	}
	// unique index complaint_id menangkap race antar 2 request bersamaan
	if err := s.feedbacks.Create(ctx, fb); err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "Feedback already submitted for this complaint")
	}

	s.recorder.record(ctx, caller, id, model.ActionFeedbackGiven, nil, nil, "")
	return fb, nil
}

// GetFeedback memakai visibility yang sama dengan GetByID.
func (s *feedbackService) GetFeedback(ctx context.Context, caller Caller, complaintID string) (*model.Feedback, error) {
	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(caller, objFeedback, actRead, "You are not allowed to view feedback"); err != nil {
		return nil, err
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "")
	}
	if !canView(caller, complaint) {
		return nil, utils.NewForbiddenError("You are not allowed to view this complaint")
	}
	if complaint.Feedback == nil {
		return nil, utils.NewNotFoundError("Feedback not found")
	}
	return complaint.Feedback, nil
}
