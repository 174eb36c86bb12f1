package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment kinds.
const (
	AttachmentImage = "image"
	AttachmentVideo = "video"
	AttachmentFile  = "file"
)

// MaxAttachmentSize is the upload cap for chat attachments (10 MB).
const MaxAttachmentSize = 10 * 1024 * 1024

// ChatMessage is an immutable message inside an accepted connection,
// stored in MongoDB and ordered by creation time ascending.
type ChatMessage struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConnectionID   uint               `json:"connection_id" bson:"connection_id"`
	SenderID       uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID     uint               `json:"receiver_id" bson:"receiver_id"`
	Message        string             `json:"message" bson:"message"`
	AttachmentURL  string             `json:"attachment_url,omitempty" bson:"attachment_url,omitempty"`
	AttachmentType string             `json:"attachment_type,omitempty" bson:"attachment_type,omitempty"`
	Read           bool               `json:"read" bson:"read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

type SendMessageRequest struct {
	Message        string `json:"message" validate:"required_without=AttachmentURL,max=5000"`
	AttachmentURL  string `json:"attachment_url,omitempty" validate:"omitempty,url"`
	AttachmentType string `json:"attachment_type,omitempty" validate:"omitempty,oneof=image video file"`
}

type CreateUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"required,min=1"`
}

// UploadTicket is the presigned destination handed back for a chat
// attachment. The client PUTs the blob to UploadURL, then sends the
// message carrying PublicURL.
type UploadTicket struct {
	UploadURL      string `json:"upload_url"`
	PublicURL      string `json:"public_url"`
	Key            string `json:"key"`
	AttachmentType string `json:"attachment_type"`
}
