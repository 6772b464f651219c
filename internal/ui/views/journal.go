package views

import (
	"sort"
	"time"

	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/store"
	"github.com/pterm/pterm"
)

func RenderPendingTransfers(entries []*store.JournalEntry) error {
	if len(entries) == 0 {
		pterm.Success.Println("No interrupted transfers")
		return nil
	}

	pterm.DefaultSection.Println("Interrupted Transfers")

	tableData := pterm.TableData{{"Reference", "Stage", "Updated", "Error"}}
	for _, e := range entries {
		errMsg := e.Error
		if errMsg == "" {
			errMsg = "-"
		}
		tableData = append(tableData, []string{
			e.Reference,
			e.Stage,
			time.Unix(e.UpdatedAt, 0).Local().Format("2006-01-02 15:04"),
			errMsg,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderRecoverReport(report *service.RecoverReport) {
	for _, ref := range report.Compensated {
		pterm.Success.Printf("Transfer %s rolled back\n", ref)
	}

	refs := make([]string, 0, len(report.Failed))
	for ref := range report.Failed {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		pterm.Error.Printf("Transfer %s still inconsistent: %v\n", ref, report.Failed[ref])
	}

	if len(report.Compensated) == 0 && len(report.Failed) == 0 {
		pterm.Success.Println("Nothing to recover")
	}
}
