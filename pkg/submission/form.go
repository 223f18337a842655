package submission

// DefaultServices is the service checkbox vocabulary, in display order.
var DefaultServices = []string{
	"Digital Marketing",
	"Website Creation",
	"SEO",
	"Social Media Management",
	"Branding",
	"Content Creation",
	"Video Production",
}

// Form is one of ContactForm, QuoteForm or CallbackForm.
type Form interface {
	variant() string
}

// ServiceOption mirrors one service checkbox.
type ServiceOption struct {
	Value   string `yaml:"value" json:"value"`
	Checked bool   `yaml:"checked" json:"checked"`
}

// ServiceOptions builds the DefaultServices checkboxes with the given values checked.
func ServiceOptions(checked ...string) []ServiceOption {
	set := make(map[string]bool, len(checked))
	for _, c := range checked {
		set[c] = true
	}
	opts := make([]ServiceOption, 0, len(DefaultServices))
	for _, s := range DefaultServices {
		opts = append(opts, ServiceOption{Value: s, Checked: set[s]})
	}
	return opts
}

// ContactForm is the main contact form: phone number and country code are
// separate inputs.
type ContactForm struct {
	Name         string          `yaml:"name" validate:"notblank"`
	Email        string          `yaml:"email" validate:"notblank,contactemail"`
	CountryCode  string          `yaml:"countryCode" validate:"notblank"`
	Phone        string          `yaml:"phone" validate:"notblank"`
	Country      string          `yaml:"country" validate:"notblank"`
	BusinessType string          `yaml:"businessType" validate:"notblank"`
	Services     []ServiceOption `yaml:"services" validate:"anychecked"`
}

func (ContactForm) variant() string { return "contact" }

// QuoteForm is ContactForm plus a budget.
type QuoteForm struct {
	ContactForm    `yaml:",inline"`
	BudgetAmount   string `yaml:"budgetAmount" validate:"notblank"`
	BudgetCurrency string `yaml:"budgetCurrency" validate:"notblank"`
}

func (QuoteForm) variant() string { return "quote" }

// CallbackForm collects a phone number that already carries its country code.
type CallbackForm struct {
	Name         string          `yaml:"name" validate:"notblank"`
	Email        string          `yaml:"email" validate:"notblank,contactemail"`
	Phone        string          `yaml:"phone" validate:"notblank"`
	Country      string          `yaml:"country" validate:"notblank"`
	BusinessType string          `yaml:"businessType" validate:"notblank"`
	Services     []ServiceOption `yaml:"services" validate:"anychecked"`
}

func (CallbackForm) variant() string { return "callback" }

// Variant names the form schema ("contact", "quote" or "callback").
func Variant(f Form) string { return f.variant() }
