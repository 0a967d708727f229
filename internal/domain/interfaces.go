package domain

import "context"

// AppointmentStore is the system of record for appointment rows.
type AppointmentStore interface {
	// AppendRow adds one row after the last populated one.
	AppendRow(ctx context.Context, row []string) error
	// ListRows returns every populated row in storage order. Rows may be
	// shorter than models.RowWidth when trailing cells are empty.
	ListRows(ctx context.Context) ([][]string, error)
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
