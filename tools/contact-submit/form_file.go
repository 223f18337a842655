package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metalstreets/contact-backend/pkg/submission"
)

// formFile is the YAML shape of a filled-in form. Services lists the checked
// values; each must be one of submission.DefaultServices and they are sent in
// that vocabulary's order whatever order the file uses.
type formFile struct {
	Variant        string   `yaml:"variant"`
	Name           string   `yaml:"name"`
	Email          string   `yaml:"email"`
	CountryCode    string   `yaml:"countryCode"`
	Phone          string   `yaml:"phone"`
	Country        string   `yaml:"country"`
	BusinessType   string   `yaml:"businessType"`
	Services       []string `yaml:"services"`
	BudgetAmount   string   `yaml:"budgetAmount"`
	BudgetCurrency string   `yaml:"budgetCurrency"`
}

// readFormFile loads path, or stdin when path is "-".
func readFormFile(stdin io.Reader, path string) (submission.Form, error) {
	if path == "" {
		return nil, errors.New("--form is required")
	}
	if path == "-" {
		return parseForm(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseForm(f)
}

func parseForm(r io.Reader) (submission.Form, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ff formFile
	if err := dec.Decode(&ff); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("form file is empty")
		}
		return nil, fmt.Errorf("parse form file: %w", err)
	}
	return ff.toForm()
}

func (ff formFile) toForm() (submission.Form, error) {
	services, err := checkedServices(ff.Services)
	if err != nil {
		return nil, err
	}

	contact := submission.ContactForm{
		Name:         ff.Name,
		Email:        ff.Email,
		CountryCode:  ff.CountryCode,
		Phone:        ff.Phone,
		Country:      ff.Country,
		BusinessType: ff.BusinessType,
		Services:     services,
	}

	switch strings.ToLower(strings.TrimSpace(ff.Variant)) {
	case "", "contact":
		return contact, nil
	case "quote":
		return submission.QuoteForm{
			ContactForm:    contact,
			BudgetAmount:   ff.BudgetAmount,
			BudgetCurrency: ff.BudgetCurrency,
		}, nil
	case "callback":
		phone := ff.Phone
		if ff.CountryCode != "" {
			phone = strings.TrimSpace(ff.CountryCode) + " " + strings.TrimSpace(ff.Phone)
		}
		return submission.CallbackForm{
			Name:         ff.Name,
			Email:        ff.Email,
			Phone:        phone,
			Country:      ff.Country,
			BusinessType: ff.BusinessType,
			Services:     services,
		}, nil
	default:
		return nil, fmt.Errorf("unknown form variant %q (want contact, quote or callback)", ff.Variant)
	}
}

func checkedServices(values []string) ([]submission.ServiceOption, error) {
	known := make(map[string]bool, len(submission.DefaultServices))
	for _, s := range submission.DefaultServices {
		known[s] = true
	}
	for _, v := range values {
		if !known[v] {
			return nil, fmt.Errorf("unknown service %q (want one of %s)", v, strings.Join(submission.DefaultServices, ", "))
		}
	}
	return submission.ServiceOptions(values...), nil
}
