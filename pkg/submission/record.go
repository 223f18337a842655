package submission

import (
	"net/url"
	"strings"
	"time"
)

// TimestampLayout renders the local time the way the store expects it.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Record is a fully assembled submission, ready for any transport.
type Record struct {
	Timestamp    string `json:"timestamp"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	BusinessType string `json:"businessType"`
	Services     string `json:"services"`
	Budget       string `json:"budget,omitempty"`
}

// Fields returns the seven store columns in order.
func (r Record) Fields() []string {
	return []string{r.Timestamp, r.Name, r.Email, r.Phone, r.Country, r.BusinessType, r.Services}
}

// Values encodes r with the intake endpoint's wire keys. Budget is only sent
// when the form collected one.
func (r Record) Values() url.Values {
	v := url.Values{}
	v.Set("timestamp", r.Timestamp)
	v.Set("name", r.Name)
	v.Set("email", r.Email)
	v.Set("phone", r.Phone)
	v.Set("country", r.Country)
	v.Set("businessType", r.BusinessType)
	v.Set("services", r.Services)
	if r.Budget != "" {
		v.Set("budget", r.Budget)
	}
	return v
}

// Assemble validates f and normalizes it into a Record stamped with now.
// On a validation failure it returns a *ValidationError and no record.
func Assemble(f Form, now time.Time) (Record, error) {
	if err := Validate(f); err != nil {
		return Record{}, err
	}

	rec := Record{Timestamp: now.Format(TimestampLayout)}
	switch form := f.(type) {
	case ContactForm:
		fillContact(&rec, form)
	case *ContactForm:
		fillContact(&rec, *form)
	case QuoteForm:
		fillQuote(&rec, form)
	case *QuoteForm:
		fillQuote(&rec, *form)
	case CallbackForm:
		fillCallback(&rec, form)
	case *CallbackForm:
		fillCallback(&rec, *form)
	}
	return rec, nil
}

func fillContact(rec *Record, f ContactForm) {
	rec.Name = strings.TrimSpace(f.Name)
	rec.Email = strings.TrimSpace(f.Email)
	rec.Phone = strings.TrimSpace(f.CountryCode) + " " + strings.TrimSpace(f.Phone)
	rec.Country = strings.TrimSpace(f.Country)
	rec.BusinessType = strings.TrimSpace(f.BusinessType)
	rec.Services = joinChecked(f.Services)
}

func fillQuote(rec *Record, f QuoteForm) {
	fillContact(rec, f.ContactForm)
	rec.Budget = strings.TrimSpace(f.BudgetAmount) + " " + strings.TrimSpace(f.BudgetCurrency)
}

func fillCallback(rec *Record, f CallbackForm) {
	rec.Name = strings.TrimSpace(f.Name)
	rec.Email = strings.TrimSpace(f.Email)
	rec.Phone = strings.TrimSpace(f.Phone)
	rec.Country = strings.TrimSpace(f.Country)
	rec.BusinessType = strings.TrimSpace(f.BusinessType)
	rec.Services = joinChecked(f.Services)
}

func joinChecked(opts []ServiceOption) string {
	vals := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Checked {
			vals = append(vals, o.Value)
		}
	}
	return strings.Join(vals, ", ")
}
