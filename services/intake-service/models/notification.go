package models

import "time"

const (
	ChannelEmail = "smtp"
	ChannelSNS   = "sns"
	ChannelQueue = "queue"

	StatusNotified     = "notified"
	StatusNotifyFailed = "notify_failed"
)

// NotificationMessage is a rendered notification, ready for any channel. It is
// also the SQS message body for the queue channel.
type NotificationMessage struct {
	To        string    `json:"to"`
	FromName  string    `json:"from_name"`
	ReplyTo   string    `json:"reply_to,omitempty"`
	Subject   string    `json:"subject"`
	PlainBody string    `json:"plain_body"`
	HTMLBody  string    `json:"html_body"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationOutcome is what the notifier reports back to the intake service.
type NotificationOutcome struct {
	Status    string
	Channels  []string
	MessageID string
	Err       error
}

// SubmissionView is the data the notification templates render.
type SubmissionView struct {
	SubmissionRecord
	StoreName string
}
