// Package validation checks sign-in, registration and password-reset form
// input before anything is sent to the identity backend.
package validation

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"golang.org/x/text/language"
)

type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldName            Field = "name"
	FieldAge             Field = "age"
	FieldGender          Field = "gender"
)

const (
	MinPasswordLen = 6
	MinNameLen     = 2
	MinAge         = 18
	MaxAge         = 120
)

// Genders lists the choices offered by the registration form.
var Genders = []string{"male", "female", "other"}

var emailRe = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// FieldErrors maps each invalid field to the catalog key of its message.
type FieldErrors map[Field]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, string(f))
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+i18n.Text(i18n.English, fe[Field(f)]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Localized renders every field message in the given language.
func (fe FieldErrors) Localized(tag language.Tag) map[Field]string {
	out := make(map[Field]string, len(fe))
	for f, key := range fe {
		out[f] = i18n.Text(tag, key)
	}
	return out
}

func (fe FieldErrors) add(f Field, key string) {
	if key != "" {
		fe[f] = key
	}
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Email returns the catalog key of the problem with s, or "".
func Email(s string) string {
	switch {
	case s == "":
		return i18n.KeyEmailRequired
	case !emailRe.MatchString(s):
		return i18n.KeyEmailInvalid
	}
	return ""
}

func Password(s string) string {
	switch {
	case s == "":
		return i18n.KeyPasswordReq
	case utf8.RuneCountInString(s) < MinPasswordLen:
		return i18n.KeyPasswordShort
	}
	return ""
}

func ConfirmPassword(password, confirm string) string {
	switch {
	case confirm == "":
		return i18n.KeyConfirmRequired
	case confirm != password:
		return i18n.KeyConfirmMismatch
	}
	return ""
}

func Name(s string) string {
	switch {
	case s == "":
		return i18n.KeyNameRequired
	case utf8.RuneCountInString(s) < MinNameLen:
		return i18n.KeyNameShort
	}
	return ""
}

// Age checks an age that is already a number.
func Age(age int) string {
	switch {
	case age < MinAge:
		return i18n.KeyAgeUnderage
	case age > MaxAge:
		return i18n.KeyAgeInvalid
	}
	return ""
}

// ParseAge converts form input to an age and checks its range.
func ParseAge(s string) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, i18n.KeyAgeRequired
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return 0, i18n.KeyAgeInvalid
	}
	return age, Age(age)
}

// Gender accepts only one of Genders.
func Gender(s string) string {
	if !slices.Contains(Genders, s) {
		return i18n.KeyGenderRequired
	}
	return ""
}

// RegistrationForm is the raw text of the registration screen.
type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Age             string
	Gender          string
}

// Validate checks every field of the form and returns the parsed age.
func (f RegistrationForm) Validate() (int, error) {
	age, ageKey := ParseAge(f.Age)

	fe := FieldErrors{}
	fe.add(FieldName, Name(f.Name))
	fe.add(FieldEmail, Email(f.Email))
	fe.add(FieldPassword, Password(f.Password))
	fe.add(FieldConfirmPassword, ConfirmPassword(f.Password, f.ConfirmPassword))
	fe.add(FieldAge, ageKey)
	fe.add(FieldGender, Gender(f.Gender))
	return age, fe.orNil()
}

func ValidateLogin(email, password string) error {
	fe := FieldErrors{}
	fe.add(FieldEmail, Email(email))
	fe.add(FieldPassword, Password(password))
	return fe.orNil()
}

func ValidateRegistration(email, password, name string, age int) error {
	fe := FieldErrors{}
	fe.add(FieldName, Name(name))
	fe.add(FieldEmail, Email(email))
	fe.add(FieldPassword, Password(password))
	fe.add(FieldAge, Age(age))
	return fe.orNil()
}

func ValidateResetPassword(email string) error {
	fe := FieldErrors{}
	fe.add(FieldEmail, Email(email))
	return fe.orNil()
}
