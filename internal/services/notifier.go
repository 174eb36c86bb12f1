package services

import (
	"context"
	"fmt"
	"log"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
)

// Connection event kinds understood by the dispatcher templates.
const (
	EventRequest  = "request"
	EventAccepted = "accepted"
)

// previewLimit caps message previews in notifications.
const previewLimit = 50

// Notifier fans a domain event out to up to three channels: the
// persisted in-app notification, transactional email and SMS. The
// channels are independent: a failure in any one is logged and swallowed
// so it can never block the others, and never rolls back the action that
// triggered the event.
type Notifier struct {
	notifications repositories.NotificationRepository
	email         EmailSender
	sms           SMSSender
}

// NewNotifier creates a new Notifier
func NewNotifier(notifications repositories.NotificationRepository, email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{
		notifications: notifications,
		email:         email,
		sms:           sms,
	}
}

type channelMessage struct {
	notifType    string
	title        string
	body         string
	link         string
	emailSubject string
	email        string
	sms          string
}

// ConnectionEvent dispatches a connection request or acceptance to the
// recipient. The actor is whoever performed the action; the recipient's
// email and phone decide which outbound channels fire.
func (n *Notifier) ConnectionEvent(ctx context.Context, recipient *models.User, kind string, actor *models.User) {
	var msg channelMessage
	switch kind {
	case EventRequest:
		msg = channelMessage{
			notifType:    models.NotificationConnectionRequest,
			title:        "New Connection Request",
			body:         actor.FullName + " wants to connect with you",
			link:         "/dashboard",
			emailSubject: "New Connection Request",
			email:        "You have a new connection request from " + actor.FullName + ". Log in to CivilConnect to respond.",
			sms:          actor.FullName + " wants to connect with you on CivilConnect. Check your account!",
		}
	case EventAccepted:
		msg = channelMessage{
			notifType:    models.NotificationConnectionAccepted,
			title:        "Connection Accepted",
			body:         actor.FullName + " accepted your connection request",
			link:         "/dashboard",
			emailSubject: "Connection Accepted",
			email:        "Great news! " + actor.FullName + " has accepted your connection request. You can now chat with them on CivilConnect.",
			sms:          actor.FullName + " accepted your connection on CivilConnect. Start chatting now!",
		}
	default:
		log.Printf("[notifier] unknown connection event kind %q, dropping", kind)
		return
	}
	n.dispatch(ctx, recipient, actor.ID, msg)
}

// NewMessage dispatches a new-message notification to the receiver with
// a truncated preview of the message body.
func (n *Notifier) NewMessage(ctx context.Context, recipient *models.User, actor *models.User, messageBody string, connectionID uint) {
	preview := TruncatePreview(messageBody)
	msg := channelMessage{
		notifType:    models.NotificationNewMessage,
		title:        "New Message",
		body:         actor.FullName + ": " + preview,
		link:         fmt.Sprintf("/chat/%d", connectionID),
		emailSubject: "New Message on CivilConnect",
		email:        actor.FullName + " sent you a message: \"" + messageBody + "\". Log in to reply.",
		sms:          "New message from " + actor.FullName + " on CivilConnect. Check your account!",
	}
	n.dispatch(ctx, recipient, actor.ID, msg)
}

// dispatch writes the in-app row unconditionally, then fires email and
// SMS when the recipient's profile carries an address for them.
func (n *Notifier) dispatch(ctx context.Context, recipient *models.User, actorID uint, msg channelMessage) {
	notif := &models.Notification{
		UserID:  recipient.ID,
		Type:    msg.notifType,
		ActorID: actorID,
		Title:   msg.title,
		Message: msg.body,
		Link:    msg.link,
	}
	if err := n.notifications.CreateNotification(notif); err != nil {
		log.Printf("[notifier] in-app notification for user %d failed: %v", recipient.ID, err)
	}

	if recipient.Email != "" {
		if _, err := n.email.SendEmail(ctx, recipient.Email, msg.emailSubject, "<p>"+msg.email+"</p>"); err != nil {
			log.Printf("[notifier] email to user %d failed: %v", recipient.ID, err)
		}
	}

	if recipient.Phone != "" {
		if err := n.sms.SendSMS(recipient.Phone, msg.sms); err != nil {
			log.Printf("[notifier] sms to user %d failed: %v", recipient.ID, err)
		}
	}
}

// TruncatePreview cuts a message body to the preview limit, appending
// an ellipsis only when something was actually cut.
func TruncatePreview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLimit {
		return body
	}
	return string(runes[:previewLimit]) + "..."
}
