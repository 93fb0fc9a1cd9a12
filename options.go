package aggpager

import (
	"io"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const _instrumentationName = "github.com/Alp4ka/aggpager"

// RawOptions is intended for API payloads. For proper code generation, inline it:
//
//	type ListArticlesRequest struct {
//	    Paging RawOptions `json:",inline"`
//	    Status string     `json:"status" url:"status,omitempty"`
//	}
type RawOptions struct {
	// Page - 1-based page number. Zero means "not provided".
	Page int `json:"page" form:"page" url:"page,omitempty"`
	// Limit - maximum number of records per page. Zero means "not provided".
	Limit int `json:"limit" form:"limit" url:"limit,omitempty"`
}

// Decode converts RawOptions into *Options bound to the given base URL and
// query-string fragment. Zero Page/Limit fall back to the defaults, any
// other value (negative included) is kept as-is.
func (r RawOptions) Decode(url, query string) *Options {
	opts := NewOptions().WithURL(url).WithQuery(query)
	if r.Page != 0 {
		opts = opts.WithPage(r.Page)
	}
	if r.Limit != 0 {
		opts = opts.WithLimit(r.Limit)
	}

	return opts
}

// DecodeNormalized works like Decode but clamps Page with NormalizePage and
// Limit with NormalizeLimit or NormalizeLimitMax, so the result is always safe to hand to the
// database. maxLimit <= 0 means MaxLimit.
func (r RawOptions) DecodeNormalized(url, query string, maxLimit int) *Options {
	limit := NormalizeLimit(r.Limit)
	if maxLimit > 0 {
		limit = NormalizeLimitMax(r.Limit, maxLimit)
	}

	return NewOptions().
		WithURL(url).
		WithQuery(query).
		WithPage(NormalizePage(r.Page)).
		WithLimit(limit)
}

// Options configures a Paginator. Every field is optional, unset page and
// limit fall back to DefaultPage and DefaultLimit.
//
// The With* methods are nil-safe and return the receiver, so a chain may
// start from a nil *Options:
//
//	opts := (*aggpager.Options)(nil).WithPage(2).WithLimit(25)
type Options struct {
	page      *int
	limit     *int
	url       string
	query     string
	project   any
	aggregate []*options.AggregateOptions
	logger    logrus.FieldLogger
	tracer    trace.Tracer
}

func NewOptions() *Options {
	return new(Options)
}

// WithPage sets the 1-based page number. No validation is performed.
func (o *Options) WithPage(page int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.page = lo.ToPtr(page)

	return o
}

// WithLimit sets the page size. No validation is performed.
func (o *Options) WithLimit(limit int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.limit = lo.ToPtr(limit)

	return o
}

// WithURL sets the base URL used for navigation links, e.g. "/api/articles".
func (o *Options) WithURL(url string) *Options {
	if o == nil {
		o = new(Options)
	}

	o.url = url

	return o
}

// WithQuery sets the query-string fragment placed before "page=" in
// navigation links. It must not start with "?" nor end with "&". The value
// is concatenated verbatim, see EncodeQuery to build one from a struct.
func (o *Options) WithQuery(query string) *Options {
	if o == nil {
		o = new(Options)
	}

	o.query = query

	return o
}

// WithProject sets a projection appended as a $project stage to the page
// query. nil removes it.
func (o *Options) WithProject(projection any) *Options {
	if o == nil {
		o = new(Options)
	}

	o.project = projection

	return o
}

// WithAggregateOptions sets driver options passed to both the page and the
// count query (collation, allowDiskUse, maxTime...).
func (o *Options) WithAggregateOptions(opts ...*options.AggregateOptions) *Options {
	if o == nil {
		o = new(Options)
	}

	o.aggregate = opts

	return o
}

// WithLogger sets the logger used for debug output. The default logger
// discards everything.
func (o *Options) WithLogger(logger logrus.FieldLogger) *Options {
	if o == nil {
		o = new(Options)
	}

	o.logger = logger

	return o
}

// WithTracer overrides the tracer taken from the global otel provider.
func (o *Options) WithTracer(tracer trace.Tracer) *Options {
	if o == nil {
		o = new(Options)
	}

	o.tracer = tracer

	return o
}

// GetPage returns the configured page or DefaultPage.
func (o *Options) GetPage() int {
	if o == nil {
		return DefaultPage
	}

	return lo.FromPtrOr(o.page, DefaultPage)
}

// GetLimit returns the configured limit or DefaultLimit.
func (o *Options) GetLimit() int {
	if o == nil {
		return DefaultLimit
	}

	return lo.FromPtrOr(o.limit, DefaultLimit)
}

func (o *Options) GetURL() string {
	if o == nil {
		return ""
	}

	return o.url
}

func (o *Options) GetQuery() string {
	if o == nil {
		return ""
	}

	return o.query
}

func (o *Options) GetProject() any {
	if o == nil {
		return nil
	}

	return o.project
}

func (o *Options) getAggregateOptions() []*options.AggregateOptions {
	if o == nil || len(o.aggregate) == 0 {
		return nil
	}

	ret := make([]*options.AggregateOptions, len(o.aggregate))
	copy(ret, o.aggregate)

	return ret
}

func (o *Options) getLogger() logrus.FieldLogger {
	if o == nil || o.logger == nil {
		return _discardLogger
	}

	return o.logger
}

func (o *Options) getTracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer(_instrumentationName)
	}

	return o.tracer
}

var _discardLogger = newDiscardLogger()

func newDiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}
