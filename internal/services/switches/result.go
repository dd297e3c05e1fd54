package switches

// ListLocation is the view every successful mutation navigates back to.
const ListLocation = "/switches"

const (
	NoticeCreated   = "Switch created successfully"
	NoticeUpdated   = "Switch updated successfully"
	NoticeCheckedIn = "Switch checked in successfully"
	NoticeDeleted   = "Switch deleted successfully"
)

// Result is the user-visible outcome of a successful action: a notice and the view to re-fetch.
type Result struct {
	Notice   string
	Location string
}
