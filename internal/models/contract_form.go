package models

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field keys of the contract form, shared by the HTML form, the JSON API and the
// generation request.
const (
	FieldContractNumber = "contractNumber"
	FieldContractDate   = "contractDate"
	FieldCitizenship    = "citizenship"
	FieldFullName       = "fullName"
	FieldShortName      = "shortName"
	FieldNickname       = "nickname"
	FieldPassport       = "passport"
	FieldEmail          = "email"
)

// FieldKeys lists every required field in the order the form presents them.
var FieldKeys = []string{
	FieldContractNumber,
	FieldContractDate,
	FieldCitizenship,
	FieldFullName,
	FieldShortName,
	FieldNickname,
	FieldPassport,
	FieldEmail,
}

// ContractForm holds the details of the contracting party, as entered by the user.
// It lives only as long as the page that edits it and is never stored.
type ContractForm struct {
	ContractNumber string `form:"contractNumber" json:"contractNumber"`
	ContractDate   string `form:"contractDate" json:"contractDate"`
	Citizenship    string `form:"citizenship" json:"citizenship"`
	FullName       string `form:"fullName" json:"fullName"`
	ShortName      string `form:"shortName" json:"shortName"`
	Nickname       string `form:"nickname" json:"nickname"`
	Passport       string `form:"passport" json:"passport"`
	Email          string `form:"email" json:"email"`
}

// ExampleContractForm is the sample filling shown to users.
var ExampleContractForm = ContractForm{
	ContractNumber: "25/10/2025",
	ContractDate:   "25 октября 2025 г.",
	Citizenship:    "Германии",
	FullName:       "EDUARD FRANK IOSIFOVIC",
	ShortName:      "EDUARD F.I.",
	Nickname:       "EDDI$",
	Passport:       "GER: L8V2RCZ80",
	Email:          "mr-frank-eduard@web.de",
}

// ErrUnknownField is returned when a field key is not one of FieldKeys.
var ErrUnknownField = errors.New("unknown contract form field")

func (f *ContractForm) field(key string) *string {
	switch key {
	case FieldContractNumber:
		return &f.ContractNumber
	case FieldContractDate:
		return &f.ContractDate
	case FieldCitizenship:
		return &f.Citizenship
	case FieldFullName:
		return &f.FullName
	case FieldShortName:
		return &f.ShortName
	case FieldNickname:
		return &f.Nickname
	case FieldPassport:
		return &f.Passport
	case FieldEmail:
		return &f.Email
	}
	return nil
}

// Set replaces the value of the field with the given key.
func (f *ContractForm) Set(key, value string) error {
	p := f.field(key)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

// Get returns the value of the field with the given key.
func (f ContractForm) Get(key string) (string, bool) {
	p := f.field(key)
	if p == nil {
		return "", false
	}
	return *p, true
}

// notBlank rejects values made only of whitespace. Required already rejects "".
var notBlank = validation.NewStringRule(func(s string) bool {
	return strings.TrimSpace(s) != ""
}, "cannot be blank")

// Validate checks that every field has a value. There are no format checks:
// any text with at least one non-space character is accepted.
func (f ContractForm) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.ContractNumber, validation.Required, notBlank),
		validation.Field(&f.ContractDate, validation.Required, notBlank),
		validation.Field(&f.Citizenship, validation.Required, notBlank),
		validation.Field(&f.FullName, validation.Required, notBlank),
		validation.Field(&f.ShortName, validation.Required, notBlank),
		validation.Field(&f.Nickname, validation.Required, notBlank),
		validation.Field(&f.Passport, validation.Required, notBlank),
		validation.Field(&f.Email, validation.Required, notBlank),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := make([]string, 0, len(verrs))
	for key := range verrs {
		missing = append(missing, key)
	}
	sortByFormOrder(missing)
	return &ValidationError{Fields: missing}
}

// MissingFields returns the keys of the required fields that have no value.
func (f ContractForm) MissingFields() []string {
	var verr *ValidationError
	if errors.As(f.Validate(), &verr) {
		return verr.Fields
	}
	return nil
}

// ValidationError lists the required fields left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required fields are empty: " + strings.Join(e.Fields, ", ")
}

func sortByFormOrder(keys []string) {
	rank := make(map[string]int, len(FieldKeys))
	for i, k := range FieldKeys {
		rank[k] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		return rank[keys[i]] < rank[keys[j]]
	})
}
