package utils

import (
	"fmt"
	"time"
)

// GenerateOrderNumber derives PC-YYYYMMDD-HHMMSSffffff from the creation
// instant in UTC. Numbers repeat only for orders created in the same
// microsecond; the unique index on order_number turns that into a conflict.
func GenerateOrderNumber(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("PC-%s-%02d%02d%02d%06d",
		now.Format("20060102"), now.Hour(), now.Minute(), now.Second(), now.Nanosecond()/1000)
}
