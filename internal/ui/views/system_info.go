package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath      string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	LogPath         string
	APIBaseURL      string
	DefaultCurrency string
	AppDataDir      string
	LoggedInAs      string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	logPath := data.LogPath
	if logPath == "" {
		logPath = "(disabled)"
	}

	user := data.LoggedInAs
	if user == "" {
		user = pterm.Gray("not logged in")
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"State Database", data.DBPath},
		{"Database Status", dbStatus},
		{"Log File", logPath},
		{"API Base URL", data.APIBaseURL},
		{"Default Currency", data.DefaultCurrency},
		{"AppData Directory", data.AppDataDir},
		{"Session", user},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
