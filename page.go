package hpq

// page.go iterates a query's records a bounded page at a time.  A Page runs
// one query and stops after its per-page limit, remembering where the next
// page should resume; Pages strings them together, cancelling the remainder
// of each page's query before issuing the next.

import (
	"io"

	"github.com/maystreet/hpq-go/internal/jsonarray"
)

type (
	// RecordIter is a pull iterator over records.  Next returns io.EOF
	// after the last record.
	RecordIter interface {
		Next() (Record, error)
	}

	// Page is a bounded, filtered view over a single query's records.
	Page struct {
		client  *Client
		request map[string]interface{}
		perPage int
		filter  func(Record) bool
		pos     *Position // resume point, nil for the first page
		nextPos *Position // set when the page fills
	}

	// PageOption configures a Page (or the first page of a Pages).
	PageOption func(*Page)
)

// WithRecordFilter drops records for which keep returns false.  Filtered
// records do not count against the page limit.
func WithRecordFilter(keep func(Record) bool) PageOption {
	return func(p *Page) {
		p.filter = keep
	}
}

// WithPosition starts the page strictly after pos instead of at the start
// of the request's range.
func WithPosition(pos *Position) PageOption {
	return func(p *Page) {
		p.pos = pos
	}
}

// NewPage builds a page over request, delivering at most perPage records.
func NewPage(c *Client, request map[string]interface{}, perPage int, opt ...PageOption) *Page {
	p := &Page{client: c, request: request, perPage: perPage}
	for _, f := range opt {
		f(p)
	}
	return p
}

// Records issues the page's query and returns an iterator over its records.
// The iterator borrows the page's client.  A page that fills returns io.EOF
// before its query's stream has ended, and an iterator abandoned early does
// the same: either way the query is left in flight for Cancel (which
// Pages.Next calls) to clean up.
func (p *Page) Records() (RecordIter, error) {
	req := p.request
	if p.pos != nil {
		req = p.pos.Rewrite(req)
	}
	body, err := p.client.Stream(req)
	if err != nil {
		return nil, err
	}
	var src RecordIter = &arraySource{dec: jsonarray.NewDecoder(body)}
	if p.pos != nil {
		src = p.pos.Filter(src)
	}
	if p.filter != nil {
		src = &userFilter{src: src, keep: p.filter}
	}
	return &pageIter{p: p, src: src}, nil
}

// NextPosition returns the position the next page should resume from, or
// nil if this page's stream was exhausted before the limit.
func (p *Page) NextPosition() *Position { return p.nextPos }

// NextPage returns a fresh page carrying this page's outbound position, or
// nil if there is nothing to resume.
func (p *Page) NextPage(c *Client) *Page {
	if p.nextPos == nil {
		return nil
	}
	return &Page{
		client:  c,
		request: p.request,
		perPage: p.perPage,
		filter:  p.filter,
		pos:     p.nextPos,
	}
}

// pageIter counts emitted records.  The record that would exceed the limit
// is not emitted: it becomes the page's outbound position.
type pageIter struct {
	p       *Page
	src     RecordIter
	emitted int
	done    bool
}

func (it *pageIter) Next() (Record, error) {
	if it.done {
		return nil, io.EOF
	}
	r, err := it.src.Next()
	if err != nil {
		it.done = true
		return nil, err
	}
	if it.emitted >= it.p.perPage {
		it.done = true
		pos, err := NewPosition(r)
		if err != nil {
			return nil, err
		}
		it.p.nextPos = pos
		return nil, io.EOF
	}
	it.emitted++
	return r, nil
}

// arraySource adapts the streaming JSON array decoder to RecordIter.
type arraySource struct {
	dec *jsonarray.Decoder
}

func (s *arraySource) Next() (Record, error) {
	var r Record
	if err := s.dec.Next(&r); err != nil {
		return nil, err
	}
	return r, nil
}

// userFilter applies the caller's record predicate.
type userFilter struct {
	src  RecordIter
	keep func(Record) bool
}

func (f *userFilter) Next() (Record, error) {
	for {
		r, err := f.src.Next()
		if err != nil {
			return nil, err
		}
		if f.keep(r) {
			return r, nil
		}
	}
}

type (
	// Pages iterates the pages covering a full result set.  At most one
	// page is live at a time.
	Pages struct {
		client  *Client
		page    *Page
		started bool
	}
)

// NewPages builds the page sequence for request.
func NewPages(c *Client, request map[string]interface{}, perPage int, opt ...PageOption) *Pages {
	return &Pages{client: c, page: NewPage(c, request, perPage, opt...)}
}

// Next returns the next page, first cancelling whatever remains of the
// previous page's query so the connection is idle for the resumed one.  It
// returns io.EOF after the last page.
func (ps *Pages) Next() (*Page, error) {
	if ps.started {
		if ps.page == nil {
			return nil, io.EOF
		}
		if err := ps.client.Cancel(); err != nil {
			return nil, err
		}
		ps.page = ps.page.NextPage(ps.client)
	}
	ps.started = true
	if ps.page == nil {
		return nil, io.EOF
	}
	return ps.page, nil
}
