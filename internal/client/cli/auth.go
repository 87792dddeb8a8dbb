package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/i18n"
	"github.com/dmitrijs2005/cupid/internal/client/session"
	"github.com/dmitrijs2005/cupid/internal/client/validation"
	"github.com/dmitrijs2005/cupid/internal/common"
)

// getSimpleText, getPassword and getChoice are indirections used in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
)

// formOrder is the order in which field errors are printed.
var formOrder = []validation.Field{
	validation.FieldName,
	validation.FieldEmail,
	validation.FieldPassword,
	validation.FieldConfirmPassword,
	validation.FieldAge,
	validation.FieldGender,
}

// Register collects the registration form and creates an account.
func (a *App) Register(ctx context.Context) error {
	w := a.writer()
	var form validation.RegistrationForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Name", w); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", w); err != nil {
		return err
	}
	pw, err := getPassword("Password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword("Confirm password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	if form.Age, err = getSimpleText(a.reader, "Age", w); err != nil {
		return err
	}
	if form.Gender, err = getChoice(a.reader, "Gender", validation.Genders, w); err != nil {
		return err
	}

	age, err := form.Validate()
	if err != nil {
		a.reportFieldErrors(err)
		return err
	}

	err = a.session.Register(ctx, session.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
		Age:      age,
		Gender:   form.Gender,
	})
	if err != nil {
		a.reportFieldErrors(err)
		return err
	}
	a.printf("Welcome, %s!\n", form.Name)
	return nil
}

// Login prompts for email and password and signs in. Backend failures are
// printed by the alert watcher.
func (a *App) Login(ctx context.Context) error {
	w := a.writer()
	email, err := getSimpleText(a.reader, "Email", w)
	if err != nil {
		return err
	}
	pw, err := getPassword("Password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.session.Login(ctx, email, string(pw)); err != nil {
		a.reportFieldErrors(err)
		return err
	}
	st := a.session.State()
	if st.CurrentUser != nil && st.CurrentUser.Name != "" {
		a.printf("Signed in as %s\n", st.CurrentUser.Name)
	} else {
		a.printf("Signed in\n")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out\n")
	return nil
}

// ResetPassword asks for an email and requests reset instructions for it.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.writer())
	if err != nil {
		return err
	}
	ok, err := a.session.ResetPassword(ctx, email)
	if err != nil {
		a.reportFieldErrors(err)
		return err
	}
	if ok {
		a.printf("%s\n", i18n.Text(a.locale, i18n.KeyResetEmailSent))
	}
	return nil
}

// WhoAmI prints the signed-in profile.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	p := st.CurrentUser
	if !st.Authenticated || p == nil {
		a.printf("Not signed in\n")
		return nil
	}

	now := time.Now()
	a.printf("id:         %s\n", p.ID)
	a.printf("name:       %s\n", p.Name)
	if p.Age > 0 {
		a.printf("age:        %d\n", p.Age)
	}
	if p.Gender != "" {
		a.printf("gender:     %s\n", p.Gender)
	}
	if p.Location != "" {
		a.printf("location:   %s\n", p.Location)
	}
	a.printf("membership: %s\n", p.MembershipType)
	a.printf("premium:    %t\n", p.IsPremium())
	a.printf("verified:   %t\n", p.IsVerified)
	a.printf("online:     %t\n", p.IsOnlineAt(now))
	return nil
}

// Status prints the session state.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	a.printf("status: %s\n", st.Status)
	a.printf("loading: %t\n", st.Loading)
	if st.LastError != "" {
		a.printf("last error: %s\n", st.LastError)
	}
	return nil
}

// reportFieldErrors prints validation problems next to their field names.
// Other errors are left to the alert watcher.
func (a *App) reportFieldErrors(err error) {
	var fe validation.FieldErrors
	if !errors.As(err, &fe) {
		a.logger.Debug(context.Background(), "command failed", "error", err)
		return
	}
	msgs := fe.Localized(a.locale)
	for _, f := range formOrder {
		if m, ok := msgs[f]; ok {
			a.printf("  %s: %s\n", f, m)
		}
	}
}
