package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventAction adalah jenis kejadian pada timeline complaint.
type EventAction string

const (
	ActionCreated       EventAction = "CREATED"
	ActionAccepted      EventAction = "ACCEPTED"
	ActionStatusChanged EventAction = "STATUS_CHANGED"
	ActionReopened      EventAction = "REOPENED"
	ActionFeedbackGiven EventAction = "FEEDBACK_GIVEN"
	ActionDeleted       EventAction = "DELETED"
)

// ComplaintEvent merepresentasikan 1 dokumen timeline di MongoDB (collection: complaint_events).
// Append-only: dokumen tidak pernah diubah setelah ditulis.
type ComplaintEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ComplaintID string             `bson:"complaintId" json:"complaintId"`
	ActorID     string             `bson:"actorId" json:"actorId"`
	ActorRole   Role               `bson:"actorRole" json:"actorRole"`
	Action      EventAction        `bson:"action" json:"action"`
	FromStatus  *Status            `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus    *Status            `bson:"toStatus,omitempty" json:"toStatus,omitempty"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
