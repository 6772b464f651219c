package prompts

import (
	"github.com/charmbracelet/huh"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/session"
	"github.com/hance08/banktech/internal/validation"
)

// PromptLogin asks for email and password in one form
func PromptLogin() (string, string, error) {
	var email, password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email:").
				Value(&email).
				Validate(validation.ValidateEmail),
			huh.NewInput().
				Title("Password:").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)

	err := form.Run()
	return email, password, err
}

// PromptRegister collects the registration form
func PromptRegister() (session.RegisterInput, error) {
	in := session.RegisterInput{AccountType: model.AccountTypes[0]}

	var typeOpts []huh.Option[string]
	for _, t := range model.AccountTypes {
		typeOpts = append(typeOpts, huh.NewOption(t, t))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full Name:").Value(&in.Name).Validate(validation.ValidateName),
			huh.NewInput().Title("Email:").Value(&in.Email).Validate(validation.ValidateEmail),
			huh.NewInput().
				Title("Password:").
				Description("At least 6 characters with upper, lower case and a special character").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(validation.ValidatePassword),
		),
		huh.NewGroup(
			huh.NewInput().Title("Phone Number:").Value(&in.PhoneNumber).Validate(validation.ValidatePhone),
			huh.NewInput().Title("Address:").Value(&in.Address).Validate(validation.ValidateAddress),
			huh.NewSelect[string]().Title("First Account Type:").Options(typeOpts...).Value(&in.AccountType),
		),
	)

	err := form.Run()
	return in, err
}

// PromptProfile edits the profile fields, prefilled with the current values
func PromptProfile(current model.User) (session.ProfileInput, error) {
	in := session.ProfileInput{
		Name:         current.Name,
		PhoneNumber:  current.PhoneNumber,
		Address:      current.Address,
		ImageProfile: current.ImageProfile,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full Name:").Value(&in.Name).Validate(validation.ValidateName),
			huh.NewInput().Title("Phone Number:").Value(&in.PhoneNumber).Validate(validation.ValidatePhone),
			huh.NewInput().Title("Address:").Value(&in.Address).Validate(validation.ValidateAddress),
			huh.NewInput().Title("Profile Image URL (optional):").Value(&in.ImageProfile),
		),
	)

	err := form.Run()
	return in, err
}
