package hpq

// position.go implements resume-after-record pagination.  A Position is an
// immutable snapshot of one record's (receipt_timestamp, sequence_number,
// message_number) key, meaning "resume strictly after this record".

import (
	"fmt"
	"time"
)

type (
	// Position names a point in the record order strictly after which a
	// resumed query should deliver records.
	Position struct {
		ts     int64
		seq    int64
		msg    int64
		hasMsg bool
	}
)

// NewPosition snapshots the resume key of record r.  The record must carry
// receipt_timestamp and sequence_number; message_number is optional.
func NewPosition(r Record) (*Position, error) {
	ts, ok := r.ReceiptTimestamp()
	if !ok {
		return nil, fmt.Errorf("hpq: record has no %s", keyReceiptTimestamp)
	}
	seq, ok := r.SequenceNumber()
	if !ok {
		return nil, fmt.Errorf("hpq: record has no %s", keySequenceNumber)
	}
	p := &Position{ts: ts, seq: seq}
	p.msg, p.hasMsg = r.MessageNumber()
	return p, nil
}

// Rewrite returns a copy of template asking the server for the closed time
// range from this position's wall-clock instant to the original end.  A
// "date" key in the template becomes "end_date"; time_zone is forced to
// UTC.  The template itself is never modified; nil means an empty request.
func (p *Position) Rewrite(template map[string]interface{}) map[string]interface{} {
	req := make(map[string]interface{}, len(template)+4)
	for k, v := range template {
		req[k] = v
	}
	if d, ok := req["date"]; ok {
		req["end_date"] = d
		delete(req, "date")
	}
	req["time_zone"] = "UTC"
	t := time.Unix(0, p.ts).UTC()
	req["start_date"] = t.Format("2006-01-02")
	req["start_time"] = t.Format("15:04:05") + fmt.Sprintf(".%09d", p.ts%int64(time.Second))
	return req
}

// Admits reports whether r falls strictly after the position.  The server's
// time ranges are inclusive, so a resumed query replays records sharing the
// position's wall-clock instant; the secondary keys disambiguate them.
func (p *Position) Admits(r Record) bool {
	if ts, ok := r.ReceiptTimestamp(); ok && ts > p.ts {
		return true
	}
	seq, ok := r.SequenceNumber()
	if !ok {
		return true
	}
	if seq < p.seq {
		return false
	}
	if seq > p.seq {
		return true
	}
	if m, ok := r.MessageNumber(); ok && p.hasMsg && m <= p.msg {
		return false
	}
	return true
}

// Filter wraps src, skipping records until the first one the position
// admits.  From then on every record is passed through unconditionally: the
// remainder of the stream is taken to be monotonic and is not re-tested,
// which protects records that interleave non-monotonically within the same
// instant.
func (p *Position) Filter(src RecordIter) RecordIter {
	return &stickyFilter{pos: p, src: src}
}

type stickyFilter struct {
	pos     *Position
	src     RecordIter
	passing bool
}

func (f *stickyFilter) Next() (Record, error) {
	for {
		r, err := f.src.Next()
		if err != nil {
			return nil, err
		}
		if f.passing || f.pos.Admits(r) {
			f.passing = true
			return r, nil
		}
	}
}
