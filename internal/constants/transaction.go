package constants

const (
	// Categorization filters
	FilterAll      = "all"
	FilterIncome   = "income"
	FilterExpense  = "expense"
	FilterInternal = "internal"
	FilterExternal = "external"
	FilterCategory = "category"

	// Client-state keys
	KeyAuthToken       = "auth_token"
	KeySelectedAccount = "selected_account"
	KeyTransferForm    = "transfer_form_progress"
	KeyCategories      = "categories"
	KeyDemoState       = "demo_state"

	// Date Layout
	DateFormat = "2006-01-02"
)
