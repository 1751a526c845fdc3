package service

import (
	"context"
	"io"
	"strings"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/media"
	"complaint-tracker-backend/utils"

	"github.com/pkg/errors"
)

// CreateComplaintInput adalah data complaint baru. Image opsional.
type CreateComplaintInput struct {
	Title       string
	Description string
	Location    string
	Category    string
	Image       io.Reader
	ImageName   string
}

// ComplaintPage adalah 1 halaman hasil List.
type ComplaintPage struct {
	Complaints []model.Complaint `json:"complaints"`
	Pagination utils.Pagination  `json:"pagination"`
}

// ComplaintStats adalah jumlah complaint per status.
type ComplaintStats struct {
	TotalComplaints      int64                  `json:"totalComplaints"`
	PendingComplaints    int64                  `json:"pendingComplaints"`
	InProgressComplaints int64                  `json:"inProgressComplaints"`
	ResolvedComplaints   int64                  `json:"resolvedComplaints"`
	ReopenedComplaints   int64                  `json:"reopenedComplaints"`
	ByStatus             map[model.Status]int64 `json:"byStatus"`
}

// ComplaintService adalah lifecycle engine complaint:
// setiap operasi memuat state, mengecek izin caller, lalu menerapkan transisi.
type ComplaintService interface {
	Create(ctx context.Context, caller Caller, in CreateComplaintInput) (*model.Complaint, error)
	Accept(ctx context.Context, caller Caller, complaintID string) (*model.Complaint, error)
	UpdateStatus(ctx context.Context, caller Caller, complaintID, status string) (*model.Complaint, error)
	GetByID(ctx context.Context, caller Caller, complaintID string) (*model.Complaint, error)
	List(ctx context.Context, caller Caller, page, limit int) (*ComplaintPage, error)
	Delete(ctx context.Context, caller Caller, complaintID string) error
	Reopen(ctx context.Context, caller Caller, complaintID string, in FeedbackInput) (*model.Complaint, error)
	Stats(ctx context.Context, caller Caller) (*ComplaintStats, error)
	History(ctx context.Context, caller Caller, complaintID string) ([]model.ComplaintEvent, error)
}

type complaintService struct {
	complaints repository.ComplaintRepository
	events     repository.EventRepository
	media      media.Uploader
	policy     *Policy
	recorder   lifecycleRecorder
}

func NewComplaintService(
	complaints repository.ComplaintRepository,
	events repository.EventRepository,
	publisher repository.EventPublisher,
	uploader media.Uploader,
	policy *Policy,
) ComplaintService {
	return &complaintService{
		complaints: complaints,
		events:     events,
		media:      uploader,
		policy:     policy,
		recorder:   newLifecycleRecorder(events, publisher),
	}
}

// Create membuat complaint PENDING milik caller. Bila upload gambar gagal
// tidak ada baris yang dibuat; bila insert gagal gambar yang sudah ter-upload dihapus lagi.
func (s *complaintService) Create(ctx context.Context, caller Caller, in CreateComplaintInput) (c *model.Complaint, err error) {
	defer func() { err = observe("create", err) }()

	if err := s.policy.Authorize(caller, objComplaint, actCreate, "You are not allowed to create complaints"); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || in.Description == "" || in.Location == "" || in.Category == "" {
		return nil, utils.NewValidationError("All fields are required")
	}

	c = &model.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		Status:      model.StatusPending,
		StudentID:   caller.ID,
	}

	if in.Image != nil {
		img, err := s.media.Upload(ctx, in.Image, in.ImageName)
		if err != nil {
			return nil, utils.NewUploadError("Error uploading image", err)
		}
		c.ImageURL = &img.URL
		c.ImagePublicID = &img.PublicID
	}

	if err := s.complaints.Create(ctx, c); err != nil {
		if c.ImagePublicID != nil {
			s.destroyImage(ctx, *c.ImagePublicID)
		}
		return nil, utils.NewInternalError("Error creating complaint", err)
	}

	s.recorder.record(ctx, caller, c.ID, model.ActionCreated, nil, statusPtr(model.StatusPending), "")
	return c, nil
}

// Accept meng-assign complaint ke worker pemanggil. Cek "belum di-assign"
// dan update-nya terjadi dalam 1 UPDATE bersyarat, jadi dari 2 worker
// yang accept bersamaan hanya satu yang menang.
func (s *complaintService) Accept(ctx context.Context, caller Caller, complaintID string) (c *model.Complaint, err error) {
	defer func() { err = observe("accept", err) }()

	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(caller, objComplaint, actAccept, "Only workers can accept complaints"); err != nil {
		return nil, err
	}

	c, err = s.complaints.Assign(ctx, id, caller.ID)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "Complaint already assigned to another worker")
	}

	s.recorder.record(ctx, caller, id, model.ActionAccepted, statusPtr(model.StatusPending), statusPtr(model.StatusInProgress), "")
	return c, nil
}

// UpdateStatus dipakai worker yang di-assign untuk memajukan status sesuai tabel transisi.
func (s *complaintService) UpdateStatus(ctx context.Context, caller Caller, complaintID, status string) (c *model.Complaint, err error) {
	defer func() { err = observe("update_status", err) }()

	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, utils.NewValidationError("Complaint ID and status are required")
	}
	to, ok := model.ParseStatus(status)
	if !ok {
		return nil, utils.NewValidationError("Invalid status").
			WithErrors("status must be one of " + joinStatuses(model.AllStatuses()))
	}
	if err := s.policy.Authorize(caller, objComplaint, actUpdateStatus, "You are not assigned to this complaint"); err != nil {
		return nil, err
	}

	current, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "")
	}
	if !current.IsAssignedTo(caller.ID) {
		return nil, utils.NewForbiddenError("You are not assigned to this complaint")
	}

	from := current.Status
	if !model.CanTransition(from, to) {
		return nil, utils.NewConflictError("Invalid status transition").
			WithErrors("cannot change status from " + string(from) + " to " + string(to))
	}

	c, err = s.complaints.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "Complaint status changed concurrently, please retry")
	}

	s.recorder.record(ctx, caller, id, model.ActionStatusChanged, statusPtr(from), statusPtr(to), "")
	return c, nil
}

// GetByID mengembalikan complaint (beserta feedback) bila caller boleh melihatnya.
func (s *complaintService) GetByID(ctx context.Context, caller Caller, complaintID string) (*model.Complaint, error) {
	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(caller, objComplaint, actRead, "You are not allowed to view complaints"); err != nil {
		return nil, err
	}

	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "")
	}
	if !canView(caller, c) {
		return nil, utils.NewForbiddenError("You are not allowed to view this complaint")
	}
	return c, nil
}

// List menerapkan visibility partition sebagai filter query, bukan filter setelah fetch,
// sehingga total dan pagination selalu konsisten dengan yang boleh dilihat caller.
func (s *complaintService) List(ctx context.Context, caller Caller, page, limit int) (*ComplaintPage, error) {
	if err := s.policy.Authorize(caller, objComplaint, actRead, "You are not allowed to view complaints"); err != nil {
		return nil, err
	}

	var filter repository.ComplaintFilter
	switch {
	case caller.Role.IsSupervisor():
	case caller.Role == model.RoleStudent:
		filter.StudentID = &caller.ID
	case caller.Role == model.RoleWorker:
		filter.AssignedToID = &caller.ID
	default:
		return nil, utils.NewForbiddenError("You are not allowed to view complaints")
	}

	page, limit = utils.NormalizePage(page, limit)
	complaints, total, err := s.complaints.List(ctx, filter, utils.Offset(page, limit), limit)
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}

	return &ComplaintPage{
		Complaints: complaints,
		Pagination: utils.NewPagination(total, page, limit),
	}, nil
}

// Delete hanya untuk WARDEN/STAFF. Hapus gambar di media host best-effort,
// lalu feedback + complaint dihapus dalam 1 transaksi.
func (s *complaintService) Delete(ctx context.Context, caller Caller, complaintID string) (err error) {
	defer func() { err = observe("delete", err) }()

	id, err := parseComplaintID(complaintID)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(caller, objComplaint, actDelete, "Only wardens or staff can delete complaints"); err != nil {
		return err
	}

	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return fromRepoError(err, msgComplaintNotFound, "")
	}

	if c.ImagePublicID != nil && *c.ImagePublicID != "" {
		s.destroyImage(ctx, *c.ImagePublicID)
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return fromRepoError(err, msgComplaintNotFound, "")
	}

	s.recorder.record(ctx, caller, id, model.ActionDeleted, statusPtr(c.Status), nil, "")
	return nil
}

// Reopen: pemilik complaint membuka kembali complaint RESOLVED sambil
// memberi (atau memperbarui) feedback.
func (s *complaintService) Reopen(ctx context.Context, caller Caller, complaintID string, in FeedbackInput) (c *model.Complaint, err error) {
	defer func() { err = observe("reopen", err) }()

	id, err := parseComplaintID(complaintID)
	if err != nil {
		return nil, err
	}
	if err := ValidateFeedback(in); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(caller, objComplaint, actReopen, "Only the student who raised the complaint can reopen it"); err != nil {
		return nil, err
	}

	current, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "")
	}
	if !current.IsOwnedBy(caller.ID) {
		return nil, utils.NewForbiddenError("Only the student who raised the complaint can reopen it")
	}
	if !current.CanBeReopened() {
		return nil, utils.NewConflictError("Only resolved complaints can be reopened")
	}

	fb := &model.Feedback{
		StudentID: caller.ID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	c, err = s.complaints.ReopenWithFeedback(ctx, id, fb)
	if err != nil {
		return nil, fromRepoError(err, msgComplaintNotFound, "Only resolved complaints can be reopened")
	}

	s.recorder.record(ctx, caller, id, model.ActionReopened, statusPtr(model.StatusResolved), statusPtr(model.StatusReopened), "")
	return c, nil
}

// Stats menghitung complaint per status (semua status dari model.AllStatuses).
func (s *complaintService) Stats(ctx context.Context, caller Caller) (*ComplaintStats, error) {
	if err := s.policy.Authorize(caller, objComplaint, actStats, "Only wardens or staff can view statistics"); err != nil {
		return nil, err
	}

	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}

	stats := &ComplaintStats{ByStatus: make(map[model.Status]int64, len(model.AllStatuses()))}
	for _, st := range model.AllStatuses() {
		n := counts[st]
		stats.ByStatus[st] = n
		stats.TotalComplaints += n
	}
	stats.PendingComplaints = stats.ByStatus[model.StatusPending]
	stats.InProgressComplaints = stats.ByStatus[model.StatusInProgress]
	stats.ResolvedComplaints = stats.ByStatus[model.StatusResolved]
	stats.ReopenedComplaints = stats.ByStatus[model.StatusReopened]
	return stats, nil
}

// History mengembalikan timeline complaint (visibility sama dengan GetByID).
func (s *complaintService) History(ctx context.Context, caller Caller, complaintID string) ([]model.ComplaintEvent, error) {
	c, err := s.GetByID(ctx, caller, complaintID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByComplaint(ctx, c.ID.String())
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, errors.Wrap(err, "list complaint events"))
	}
	return events, nil
}

func (s *complaintService) destroyImage(ctx context.Context, publicID string) {
	if err := s.media.Destroy(ctx, publicID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("public_id", publicID).Msg("[MEDIA] Gagal menghapus gambar")
	}
}

func joinStatuses(statuses []model.Status) string {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
