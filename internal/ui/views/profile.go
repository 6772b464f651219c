package views

import (
	"github.com/hance08/banktech/internal/model"
	"github.com/pterm/pterm"
)

func RenderProfile(u model.User) error {
	pterm.DefaultSection.Println("Profile")

	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	joined := "-"
	if !u.CreatedAt.IsZero() {
		joined = u.CreatedAt.Local().Format("2006-01-02")
	}

	tableData := pterm.TableData{
		{pterm.Blue("Name"), orDash(u.Name)},
		{pterm.Blue("Email"), orDash(u.Email)},
		{pterm.Blue("Phone"), orDash(u.PhoneNumber)},
		{pterm.Blue("Address"), orDash(u.Address)},
		{pterm.Blue("Profile Image"), orDash(u.ImageProfile)},
		{pterm.Blue("Member Since"), joined},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
