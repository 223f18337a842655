package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalstreets/contact-backend/pkg/submission"
)

const janeYAML = `
name: Jane Doe
email: jane@x.com
countryCode: "+1"
phone: "5551234"
country: US
businessType: Startup
services:
  - Branding
  - SEO
`

func TestParseForm_DefaultsToContact(t *testing.T) {
	form, err := parseForm(strings.NewReader(janeYAML))
	require.NoError(t, err)

	contact, ok := form.(submission.ContactForm)
	require.True(t, ok, "got %T", form)
	assert.Equal(t, "Jane Doe", contact.Name)
	assert.Equal(t, "+1", contact.CountryCode)
	assert.Equal(t, submission.ServiceOptions("SEO", "Branding"), contact.Services)
	assert.Equal(t, "contact", submission.Variant(form))
}

func TestParseForm_Quote(t *testing.T) {
	form, err := parseForm(strings.NewReader("variant: Quote\nbudgetAmount: \"5000\"\nbudgetCurrency: USD\n" + janeYAML))
	require.NoError(t, err)

	quote, ok := form.(submission.QuoteForm)
	require.True(t, ok, "got %T", form)
	assert.Equal(t, "5000", quote.BudgetAmount)
	assert.Equal(t, "jane@x.com", quote.Email)
}

func TestParseForm_CallbackJoinsCountryCode(t *testing.T) {
	form, err := parseForm(strings.NewReader("variant: callback\n" + janeYAML))
	require.NoError(t, err)

	cb, ok := form.(submission.CallbackForm)
	require.True(t, ok, "got %T", form)
	assert.Equal(t, "+1 5551234", cb.Phone)
}

func TestParseForm_Errors(t *testing.T) {
	_, err := parseForm(strings.NewReader(""))
	assert.EqualError(t, err, "form file is empty")

	_, err = parseForm(strings.NewReader("nmae: typo\n"))
	assert.ErrorContains(t, err, "parse form file")

	_, err = parseForm(strings.NewReader("variant: survey\n"))
	assert.ErrorContains(t, err, `unknown form variant "survey"`)
}

func TestParseForm_ServicesFollowDisplayOrder(t *testing.T) {
	form, err := parseForm(strings.NewReader(janeYAML))
	require.NoError(t, err)

	rec, err := submission.Assemble(form, time.Date(2026, 3, 7, 14, 5, 9, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "SEO, Branding", rec.Services)
}

func TestParseForm_RejectsUnknownService(t *testing.T) {
	_, err := parseForm(strings.NewReader("name: Jane Doe\nservices:\n  - SEO\n  - Web\n"))
	assert.ErrorContains(t, err, `unknown service "Web"`)
	assert.ErrorContains(t, err, "Digital Marketing")

	_, err = parseForm(strings.NewReader("variant: callback\nservices:\n  - seo\n"))
	assert.ErrorContains(t, err, `unknown service "seo"`)
}
