package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/meinhoongagan/medcare/scheduling"
)

// Duration stores a service duration as whole minutes in an integer column
// while accepting every wire encoding the scheduling package understands.
type Duration struct {
	scheduling.Duration
}

func DurationOfMinutes(minutes int) Duration {
	return Duration{scheduling.MinutesDuration(minutes)}
}

// GormDataType keeps the column an integer.
func (Duration) GormDataType() string {
	return "integer"
}

// Value implements the driver.Valuer interface
func (d Duration) Value() (driver.Value, error) {
	return int64(d.Minutes()), nil
}

// Scan implements the sql.Scanner interface
func (d *Duration) Scan(value interface{}) error {
	if value == nil {
		*d = Duration{}
		return nil
	}

	var minutes int64
	switch v := value.(type) {
	case int64:
		minutes = v
	case int32:
		minutes = int64(v)
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan Duration: %w", err)
		}
		minutes = parsed
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan Duration: %w", err)
		}
		minutes = parsed
	default:
		return fmt.Errorf("failed to scan Duration: unsupported type %T", value)
	}

	*d = DurationOfMinutes(int(minutes))
	return nil
}
