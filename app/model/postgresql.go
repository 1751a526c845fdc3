package model

import (
	"time"

	"github.com/google/uuid"
)

// Role adalah peran user. Tidak bisa diubah setelah user dibuat.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleWorker  Role = "WORKER"
	RoleWarden  Role = "WARDEN"
	RoleStaff   Role = "STAFF"
)

// AllRoles mengembalikan semua role yang dikenal.
func AllRoles() []Role {
	return []Role{RoleStudent, RoleWorker, RoleWarden, RoleStaff}
}

// ParseRole mengembalikan false bila role tidak dikenal.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsSupervisor: WARDEN dan STAFF boleh melihat & mengelola semua complaint.
func (r Role) IsSupervisor() bool {
	return r == RoleWarden || r == RoleStaff
}

// User merepresentasikan pengguna sistem (student, worker, warden, staff).
// Category hanya terisi untuk WORKER (jenis layanan: Plumbing, Electrical, ...).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(10);not null;check:role IN ('STUDENT','WORKER','WARDEN','STAFF')" json:"role"`
	Category     *string   `gorm:"type:varchar(100)" json:"category,omitempty"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Complaint adalah keluhan yang dibuat oleh user (biasanya STUDENT).
// StudentID tidak pernah berubah; AssignedToID diisi sekali saat worker accept.
type Complaint struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Location      string     `gorm:"not null" json:"location"`
	Category      string     `gorm:"type:varchar(100);not null;index" json:"category"`
	ImageURL      *string    `gorm:"type:text" json:"imageUrl"`
	ImagePublicID *string    `gorm:"type:text" json:"imagePublicId"`
	Status        Status     `gorm:"type:varchar(20);not null;default:'PENDING';index;check:status IN ('PENDING','IN_PROGRESS','RESOLVED','REOPENED')" json:"status"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"studentId"`
	Student       *User      `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"student,omitempty"`
	AssignedToID  *uuid.UUID `gorm:"type:uuid;index" json:"assignedToId"`
	AssignedTo    *User      `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assignedTo,omitempty"`
	Feedback      *Feedback  `gorm:"foreignKey:ComplaintID" json:"feedback,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsOwnedBy: apakah complaint ini milik user tersebut.
func (c *Complaint) IsOwnedBy(userID uuid.UUID) bool {
	return c.StudentID == userID
}

// IsAssignedTo: apakah complaint ini sedang ditangani worker tersebut.
func (c *Complaint) IsAssignedTo(userID uuid.UUID) bool {
	return c.AssignedToID != nil && *c.AssignedToID == userID
}

// Feedback adalah penilaian student atas complaint yang sudah selesai (1:1 dengan Complaint).
type Feedback struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"complaintId"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"studentId"`
	Rating      int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment     *string   `gorm:"type:varchar(500)" json:"comment"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PublicUser adalah data user yang aman dikirim ke client.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Category *string   `json:"category,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Category: u.Category}
}
