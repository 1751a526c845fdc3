package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/media"

	"github.com/google/uuid"
)

// memStore adalah pengganti PostgreSQL untuk test service.
// Conditional update dijalankan di bawah mutex, sama atomiknya dengan UPDATE ... WHERE.
type memStore struct {
	mu         sync.Mutex
	complaints map[uuid.UUID]*model.Complaint
	feedbacks  map[uuid.UUID]*model.Feedback
	seq        int
	deletes    int
	createErr  error
}

func newMemStore() *memStore {
	return &memStore{
		complaints: make(map[uuid.UUID]*model.Complaint),
		feedbacks:  make(map[uuid.UUID]*model.Feedback),
	}
}

// put menaruh complaint langsung ke store (untuk menyiapkan state awal).
func (s *memStore) put(c model.Complaint) *model.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.seq++
	c.CreatedAt = time.Unix(int64(s.seq), 0)
	s.complaints[c.ID] = &c
	return &c
}

func (s *memStore) snapshot(id uuid.UUID) *model.Complaint {
	c := *s.complaints[id]
	if fb, ok := s.feedbacks[id]; ok {
		f := *fb
		c.Feedback = &f
	} else {
		c.Feedback = nil
	}
	return &c
}

type memComplaintRepo struct{ *memStore }

func (r memComplaintRepo) Create(_ context.Context, c *model.Complaint) error {
	if r.createErr != nil {
		return r.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := r.put(*c)
	c.CreatedAt = stored.CreatedAt
	return nil
}

func (r memComplaintRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return r.snapshot(id), nil
}

func (r memComplaintRepo) List(_ context.Context, f repository.ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.Complaint
	for id, c := range r.complaints {
		if f.StudentID != nil && c.StudentID != *f.StudentID {
			continue
		}
		if f.AssignedToID != nil && !c.IsAssignedTo(*f.AssignedToID) {
			continue
		}
		matched = append(matched, *r.snapshot(id))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.Complaint{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r memComplaintRepo) Assign(_ context.Context, id, workerID uuid.UUID) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.AssignedToID != nil {
		return nil, repository.ErrConflict
	}
	w := workerID
	c.AssignedToID = &w
	c.Status = model.StatusInProgress
	return r.snapshot(id), nil
}

func (r memComplaintRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.Status) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.Status != from {
		return nil, repository.ErrConflict
	}
	c.Status = to
	return r.snapshot(id), nil
}

func (r memComplaintRepo) ReopenWithFeedback(_ context.Context, id uuid.UUID, fb *model.Feedback) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.Status != model.StatusResolved {
		return nil, repository.ErrConflict
	}
	c.Status = model.StatusReopened
	if existing, ok := r.feedbacks[id]; ok {
		existing.Rating = fb.Rating
		existing.Comment = fb.Comment
	} else {
		f := *fb
		f.ID = uuid.New()
		f.ComplaintID = id
		r.feedbacks[id] = &f
	}
	return r.snapshot(id), nil
}

func (r memComplaintRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.feedbacks, id)
	delete(r.complaints, id)
	r.deletes++
	return nil
}

func (r memComplaintRepo) CountByStatus(context.Context) (map[model.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.Status]int64)
	for _, c := range r.complaints {
		out[c.Status]++
	}
	return out, nil
}

type memFeedbackRepo struct{ *memStore }

func (r memFeedbackRepo) Create(_ context.Context, fb *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedbacks[fb.ComplaintID]; ok {
		return repository.ErrDuplicate
	}
	fb.ID = uuid.New()
	f := *fb
	r.feedbacks[fb.ComplaintID] = &f
	return nil
}

func (r memFeedbackRepo) FindByComplaintID(_ context.Context, id uuid.UUID) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.feedbacks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f := *fb
	return &f, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []model.ComplaintEvent
}

func (e *memEvents) Append(_ context.Context, ev *model.ComplaintEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, *ev)
	return nil
}

func (e *memEvents) ListByComplaint(_ context.Context, id string) ([]model.ComplaintEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []model.ComplaintEvent{}
	for _, ev := range e.events {
		if ev.ComplaintID == id {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (e *memEvents) Publish(ctx context.Context, ev model.ComplaintEvent) error {
	return nil
}

type fakeUploader struct {
	mu        sync.Mutex
	uploadErr error
	uploads   int
	destroyed []string
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader, name string) (*media.UploadedImage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploads++
	return &media.UploadedImage{URL: "https://cdn.example.com/" + name, PublicID: "complaints/" + name}, nil
}

func (u *fakeUploader) Destroy(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.destroyed = append(u.destroyed, publicID)
	return nil
}

type testEnv struct {
	store     *memStore
	events    *memEvents
	uploader  *fakeUploader
	complaint ComplaintService
	feedback  FeedbackService
}

func newTestEnv() *testEnv {
	policy, err := NewPolicy()
	if err != nil {
		panic(err)
	}
	store := newMemStore()
	events := &memEvents{}
	up := &fakeUploader{}
	return &testEnv{
		store:     store,
		events:    events,
		uploader:  up,
		complaint: NewComplaintService(memComplaintRepo{store}, events, events, up, policy),
		feedback:  NewFeedbackService(memComplaintRepo{store}, memFeedbackRepo{store}, events, events, policy),
	}
}

func newCaller(role model.Role) Caller {
	return Caller{ID: uuid.New(), Role: role}
}
