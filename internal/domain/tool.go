package domain

// Booking is a salon appointment captured by the save_booking_data capability.
type Booking struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Service        string `json:"service"`
	DateTime       string `json:"datetime"`
	MasterCategory string `json:"master_category"`
	Comments       string `json:"comments"`
}

// Row renders the booking as a sheet row prefixed with the capture timestamp.
func (b Booking) Row(timestamp string) []string {
	return []string{
		timestamp,
		b.Name,
		b.Phone,
		b.Service,
		b.DateTime,
		b.MasterCategory,
		b.Comments,
	}
}
