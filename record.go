package hpq

// record.go models one element of a response body.  Records are decoded
// with json.Number so nanosecond timestamps do not lose precision on the
// way through float64.

import "encoding/json"

// Keys every record is expected to carry (message_number is optional).
const (
	keyReceiptTimestamp  = "receipt_timestamp"
	keyExchangeTimestamp = "exchange_timestamp"
	keySequenceNumber    = "sequence_number"
	keyMessageNumber     = "message_number"
)

// Record is one decoded record of a response body.
type Record map[string]interface{}

// ReceiptTimestamp returns the record's receipt timestamp in nanoseconds
// since the Unix epoch, if present.
func (r Record) ReceiptTimestamp() (int64, bool) {
	return r.int64Field(keyReceiptTimestamp)
}

// SequenceNumber returns the record's sequence number, if present.
func (r Record) SequenceNumber() (int64, bool) {
	return r.int64Field(keySequenceNumber)
}

// MessageNumber returns the record's message number, if present.
func (r Record) MessageNumber() (int64, bool) {
	return r.int64Field(keyMessageNumber)
}

func (r Record) int64Field(key string) (int64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
