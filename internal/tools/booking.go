package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// SaveBookingName is the capability the assistant calls to record a booking.
const SaveBookingName = "save_booking_data"

// BookingSink persists one booking row.
type BookingSink interface {
	AppendRow(ctx context.Context, row []string) error
}

// NewSaveBooking returns the save_booking_data handler. Sink failures are
// reported in the result, never as an error.
func NewSaveBooking(sink BookingSink, now func() time.Time) Handler {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, args map[string]any) (any, error) {
		booking := BookingFromArgs(args)
		row := booking.Row(now().UTC().Format("2006-01-02T15:04:05.000000"))

		if err := sink.AppendRow(ctx, row); err != nil {
			return map[string]any{
				"status":  domain.CapabilityStatusError,
				"message": err.Error(),
				"row":     row,
			}, nil
		}
		return map[string]any{
			"status":   domain.CapabilityStatusOK,
			"appended": row,
		}, nil
	}
}

// BookingFromArgs normalizes loosely typed arguments; missing fields become "".
func BookingFromArgs(args map[string]any) domain.Booking {
	return domain.Booking{
		Name:           stringArg(args, "name"),
		Phone:          stringArg(args, "phone"),
		Service:        stringArg(args, "service"),
		DateTime:       stringArg(args, "datetime"),
		MasterCategory: stringArg(args, "master_category"),
		Comments:       stringArg(args, "comments"),
	}
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	return fmt.Sprint(v)
}
