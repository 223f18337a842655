package models

// SubmissionState tracks one intake request:
// RECEIVED -> STORE_APPENDED -> NOTIFIED | NOTIFY_FAILED -> RESPONDED.
type SubmissionState string

const (
	StateReceived      SubmissionState = "RECEIVED"
	StateStoreAppended SubmissionState = "STORE_APPENDED"
	StateNotified      SubmissionState = "NOTIFIED"
	StateNotifyFailed  SubmissionState = "NOTIFY_FAILED"
	StateResponded     SubmissionState = "RESPONDED"
)
