package hpq

// time.go renders the service's nanosecond timestamps for humans

import (
	"fmt"
	"time"
)

// FormatTimestamp renders nanoseconds since the Unix epoch as a UTC
// timestamp with exactly nine fractional digits, e.g.
// "1970-01-01T00:00:01.000000001Z".
func FormatTimestamp(ns int64) string {
	t := time.Unix(0, ns).UTC()
	return t.Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09dZ", ns%int64(time.Second))
}

// FormatTimestamps rewrites the receipt_timestamp and exchange_timestamp
// fields of r, if present, into FormatTimestamp form.  It returns r.
func FormatTimestamps(r Record) Record {
	format := func(key string) {
		if ns, ok := r.int64Field(key); ok {
			r[key] = FormatTimestamp(ns)
		}
	}
	format(keyReceiptTimestamp)
	format(keyExchangeTimestamp)
	return r
}
