package reports

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
)

var ErrUnknownReport = errors.New("unknown report")

// DefaultPeriod is the number of days covered when the caller gives none
const DefaultPeriod = 30

// Options carries the presentation settings shared by every report
type Options struct {
	Currency  string
	Period    int
	StoreName string
}

func (o Options) currency() string {
	if o.Currency == "" {
		return export.DefaultCurrency
	}
	return o.Currency
}

func (o Options) periodLabel() string {
	days := o.Period
	if days <= 0 {
		days = DefaultPeriod
	}
	return "Derniers " + strconv.Itoa(days) + " jours"
}

// Request is the body the web console posts for a report export. Records
// holds the main list (products, customers, orders, logs); Data holds the
// object-shaped payloads (accounting stats, dashboard, ledger).
type Request struct {
	Records   []export.Record `json:"records"`
	Expenses  []export.Record `json:"expenses"`
	Data      export.Record   `json:"data"`
	Currency  string          `json:"currency"`
	Period    int             `json:"period"`
	StoreName string          `json:"store_name"`
}

// Options extracts the presentation settings of the request
func (r *Request) Options() Options {
	return Options{Currency: r.Currency, Period: r.Period, StoreName: r.StoreName}
}

type builder func(req *Request) *export.Job

var registry = map[string]builder{
	"inventory":  func(r *Request) *export.Job { return Inventory(r.Records, r.Options()) },
	"crm":        func(r *Request) *export.Job { return CRM(r.Records, r.Options()) },
	"accounting": func(r *Request) *export.Job { return Accounting(r.Data, r.Expenses, r.Options()) },
	"orders":     func(r *Request) *export.Job { return Orders(r.Records, r.Options()) },
	"activity":   func(r *Request) *export.Job { return Activity(r.Records, r.Options()) },
	"dashboard":  func(r *Request) *export.Job { return Dashboard(r.Data, r.Options()) },
	"ledger":     func(r *Request) *export.Job { return Ledger(r.Data, r.Options()) },
}

// Names lists the available reports in alphabetical order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build maps a request onto the export job of the named report
func Build(name string, req *Request) (*export.Job, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	if req == nil {
		req = &Request{}
	}
	return build(req), nil
}

// newJob pairs a workbook and a document that share title, period and
// store metadata.
func newJob(title, filename, period string, opts Options, sheets []export.Sheet, docTitle string, sections []export.Section) *export.Job {
	return &export.Job{
		Workbook: &export.Workbook{
			Title:     title,
			Period:    period,
			StoreName: opts.StoreName,
			Filename:  filename,
			Sheets:    sheets,
		},
		Document: &export.Document{
			Title:     docTitle,
			Period:    period,
			StoreName: opts.StoreName,
			Filename:  filename,
			Sections:  sections,
		},
	}
}
