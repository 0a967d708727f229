package models

// RowWidth is the number of columns an appointment occupies (A..G).
const RowWidth = 7

const (
	FirstTimeYes = "Yes"
	FirstTimeNo  = "No"

	// CheckboxOn is what browsers send for a checked checkbox without a value attribute.
	CheckboxOn = "on"
)

const (
	DefaultSheetName    = "Sheet1"
	DefaultPort         = 3000
	DefaultStaticDir    = "public"
	DefaultRedirectPath = "/thankyou.html"
)

// AppointmentColumns are the table headers in sheet column order.
var AppointmentColumns = []string{
	"Date",
	"Time",
	"Dog Name",
	"Address",
	"First Time",
	"Payment",
	"Notes",
}
