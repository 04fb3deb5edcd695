package nav

import "expensedash/internal/domain/session"

// Item is one sidebar entry. The icon name renders as a CSS class on the
// entry; styling for it is optional.
type Item struct {
	Label string
	Path  string
	Icon  string
}

var employeeMenu = []Item{
	{Label: "Submit Expense", Path: "/submit-expense", Icon: "receipt"},
	{Label: "My Expenses", Path: "/my-expenses", Icon: "file-text"},
}

var managerMenu = []Item{
	{Label: "Pending Approvals", Path: "/pending-approvals", Icon: "check-square"},
	{Label: "Team Expenses", Path: "/team-expenses", Icon: "dollar-sign"},
}

var adminMenu = []Item{
	{Label: "Manage Users", Path: "/manage-users", Icon: "users"},
	{Label: "All Expenses", Path: "/all-expenses", Icon: "file-text"},
	{Label: "Approval Rules", Path: "/approval-rules", Icon: "settings"},
}

// MenuFor returns the fixed, ordered menu for a role. Unrecognized roles get
// the Employee menu; there is no error path. Callers must not mutate the
// returned slice.
func MenuFor(role session.Role) []Item {
	switch role {
	case session.RoleManager:
		return managerMenu
	case session.RoleAdmin:
		return adminMenu
	default:
		return employeeMenu
	}
}
