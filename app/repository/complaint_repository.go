package repository

import (
	"context"
	"time"

	"complaint-tracker-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplaintFilter adalah visibility partition untuk List.
// Field nil = tidak difilter (WARDEN/STAFF melihat semua).
type ComplaintFilter struct {
	StudentID    *uuid.UUID
	AssignedToID *uuid.UUID
}

// ComplaintRepository menyimpan complaint di PostgreSQL.
// Semua perubahan status memakai conditional update supaya
// dua request bersamaan tidak saling menimpa.
type ComplaintRepository interface {
	Create(ctx context.Context, c *model.Complaint) error

	// FindByID mengembalikan complaint beserta feedback-nya (bila ada).
	FindByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error)

	// List mengembalikan satu halaman complaint (terbaru dulu) dan total baris sesuai filter.
	List(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error)

	// Assign: UPDATE ... WHERE id = ? AND assigned_to_id IS NULL.
	// 0 baris => ErrConflict (sudah di-assign) atau ErrNotFound.
	Assign(ctx context.Context, id, workerID uuid.UUID) (*model.Complaint, error)

	// UpdateStatus: UPDATE ... WHERE id = ? AND status = from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status) (*model.Complaint, error)

	// ReopenWithFeedback mengubah RESOLVED -> REOPENED dan upsert feedback dalam 1 transaksi.
	ReopenWithFeedback(ctx context.Context, id uuid.UUID, fb *model.Feedback) (*model.Complaint, error)

	// Delete menghapus feedback lalu complaint dalam 1 transaksi.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus menghitung jumlah complaint per status.
	CountByStatus(ctx context.Context) (map[model.Status]int64, error)
}

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository membuat instance repository complaint.
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *complaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	return findComplaint(r.db.WithContext(ctx), id)
}

func findComplaint(db *gorm.DB, id uuid.UUID) (*model.Complaint, error) {
	var c model.Complaint
	err := db.
		Preload("Feedback").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Complaint{})
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	// Session baru supaya Count dan Find tidak berbagi statement
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	complaints := make([]model.Complaint, 0, limit)
	err := q.
		Preload("Feedback").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *complaintRepository) Assign(ctx context.Context, id, workerID uuid.UUID) (*model.Complaint, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Complaint{}).
		Where("id = ? AND assigned_to_id IS NULL", id).
		Updates(map[string]interface{}{
			"assigned_to_id": workerID,
			"status":         model.StatusInProgress,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.missingOrConflict(db, id)
	}
	return findComplaint(db, id)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status) (*model.Complaint, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Complaint{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.missingOrConflict(db, id)
	}
	return findComplaint(db, id)
}

func (r *complaintRepository) ReopenWithFeedback(ctx context.Context, id uuid.UUID, fb *model.Feedback) (*model.Complaint, error) {
	var out *model.Complaint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Complaint{}).
			Where("id = ? AND status = ?", id, model.StatusResolved).
			Updates(map[string]interface{}{
				"status":     model.StatusReopened,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.missingOrConflict(tx, id)
		}

		if fb.ID == uuid.Nil {
			fb.ID = uuid.New()
		}
		fb.ComplaintID = id
		// upsert: feedback lama (bila ada) ditimpa rating & comment baru
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "complaint_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(fb).Error
		if err != nil {
			return err
		}

		c, err := findComplaint(tx, id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&model.Feedback{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Complaint{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *complaintRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	var rows []struct {
		Status model.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.Status]int64, len(model.AllStatuses()))
	for _, st := range model.AllStatuses() {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// missingOrConflict membedakan "baris tidak ada" dari "state sudah berubah"
// setelah conditional update tidak mengenai baris apa pun.
func (r *complaintRepository) missingOrConflict(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&model.Complaint{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
