package models

// Appointment is one dog meeting as stored in a single sheet row.
type Appointment struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	DogName       string `json:"dogName"`
	Address       string `json:"address"`
	FirstTime     string `json:"firstTime"` // Yes, No
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// Row returns the appointment in sheet column order.
func (a Appointment) Row() []string {
	return []string{
		a.Date,
		a.Time,
		a.DogName,
		a.Address,
		a.FirstTime,
		a.PaymentMethod,
		a.Notes,
	}
}

// AppointmentFromRow maps sheet cells back onto an Appointment.
// Missing trailing cells stay empty and extra cells are ignored.
func AppointmentFromRow(cells []string) Appointment {
	padded := PadRow(cells)
	return Appointment{
		Date:          padded[0],
		Time:          padded[1],
		DogName:       padded[2],
		Address:       padded[3],
		FirstTime:     padded[4],
		PaymentMethod: padded[5],
		Notes:         padded[6],
	}
}

// PadRow returns exactly RowWidth cells, filling gaps with empty strings.
func PadRow(cells []string) []string {
	out := make([]string, RowWidth)
	copy(out, cells)
	return out
}

// NormalizeFirstTime maps a checkbox value onto Yes/No.
func NormalizeFirstTime(v string) string {
	switch v {
	case CheckboxOn, FirstTimeYes:
		return FirstTimeYes
	default:
		return FirstTimeNo
	}
}
