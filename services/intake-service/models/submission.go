package models

import "time"

// TimestampLayout is the en-US locale string shape the website stamps records with.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Columns is the fixed store column order.
var Columns = []string{"Timestamp", "Name", "Email", "Phone", "Country", "Business Type", "Services"}

// SubmissionRecord is one normalized contact-form submission. The form tags
// bind both a form-encoded body and a query string; missing keys stay "".
type SubmissionRecord struct {
	Timestamp    string `form:"timestamp" json:"timestamp"`
	Name         string `form:"name" json:"name"`
	Email        string `form:"email" json:"email"`
	Phone        string `form:"phone" json:"phone"`
	Country      string `form:"country" json:"country"`
	BusinessType string `form:"businessType" json:"businessType"`
	Services     string `form:"services" json:"services"`
	Budget       string `form:"budget" json:"budget,omitempty"`
}

// Fields returns the values in store column order.
func (r SubmissionRecord) Fields() []string {
	return []string{r.Timestamp, r.Name, r.Email, r.Phone, r.Country, r.BusinessType, r.Services}
}

// RecordFromFields is the inverse of Fields. Extra fields are ignored; missing
// trailing fields stay empty.
func RecordFromFields(fields []string) SubmissionRecord {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return SubmissionRecord{
		Timestamp:    get(0),
		Name:         get(1),
		Email:        get(2),
		Phone:        get(3),
		Country:      get(4),
		BusinessType: get(5),
		Services:     get(6),
	}
}

// StampIfMissing fills Timestamp from now when the client did not send one.
func (r *SubmissionRecord) StampIfMissing(now time.Time) {
	if r.Timestamp == "" {
		r.Timestamp = now.Format(TimestampLayout)
	}
}

// IsEmpty reports whether no field carries data; used to tell a liveness GET
// from a hidden-frame submission.
func (r SubmissionRecord) IsEmpty() bool {
	for _, f := range r.Fields() {
		if f != "" {
			return false
		}
	}
	return r.Budget == ""
}
