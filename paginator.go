package aggpager

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNilAggregator is returned by Paginate when no collection was given.
var ErrNilAggregator = errors.New("aggpager: nil aggregator")

// Aggregator runs an aggregation pipeline and returns a cursor over its
// results. *mongo.Collection and *mongo.Database implement it.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

var (
	_ Aggregator = (*mongo.Collection)(nil)
	_ Aggregator = (*mongo.Database)(nil)
)

type countResult struct {
	TotalCount int64 `bson:"totalCount"`
}

// Paginator computes one page of an aggregation pipeline together with its
// navigation metadata. All fields are fixed at construction, so a single
// Paginator may be used by several goroutines at once.
type Paginator[D any] struct {
	coll      Aggregator
	pipeline  Pipeline
	page      int
	limit     int
	url       string
	query     string
	project   any
	aggregate []*options.AggregateOptions
	logger    logrus.FieldLogger
	tracer    trace.Tracer
}

// NewPaginator binds pipeline and opts to coll. opts may be nil, in which
// case page 1 with DefaultLimit elements is requested. Both the pipeline and
// the options are copied, later changes to them do not affect the Paginator.
func NewPaginator[D any](coll Aggregator, pipeline Pipeline, opts *Options) *Paginator[D] {
	return &Paginator[D]{
		coll:      coll,
		pipeline:  extend(pipeline),
		page:      opts.GetPage(),
		limit:     opts.GetLimit(),
		url:       opts.GetURL(),
		query:     opts.GetQuery(),
		project:   opts.GetProject(),
		aggregate: opts.getAggregateOptions(),
		logger:    opts.getLogger(),
		tracer:    opts.getTracer(),
	}
}

// Paginate is a shorthand for NewPaginator(coll, pipeline, opts).Paginate(ctx).
func Paginate[D any](ctx context.Context, coll Aggregator, pipeline Pipeline, opts *Options) (*Pagination[D], error) {
	return NewPaginator[D](coll, pipeline, opts).Paginate(ctx)
}

// PagePipeline returns a fresh copy of the pipeline used for the page query:
//
//	pipeline ++ [$skip, $limit] (++ [$project] when a projection is set)
func (p *Paginator[D]) PagePipeline() Pipeline {
	return extend(p.pipeline, PageStages(p.page, p.limit, p.project)...)
}

// CountPipeline returns a fresh copy of the pipeline used for the count
// query: pipeline ++ [$count "totalCount"].
func (p *Paginator[D]) CountPipeline() Pipeline {
	return extend(p.pipeline, CountStage(TotalCountField))
}

// Paginate runs the page query and, when it produced at least one element,
// the count query. An empty page is reported as total 0 with a single page,
// whichever page was requested.
//
// Errors returned by the driver are passed through untouched.
func (p *Paginator[D]) Paginate(ctx context.Context) (*Pagination[D], error) {
	if p == nil || isNilAggregator(p.coll) {
		return nil, ErrNilAggregator
	}

	ctx, span := p.tracer.Start(ctx, "aggpager.Paginate", trace.WithAttributes(
		attribute.Int("aggpager.page", p.page),
		attribute.Int("aggpager.limit", p.limit),
		attribute.Int("aggpager.stages", len(p.pipeline)),
	))
	defer span.End()

	log := p.logger.WithFields(logrus.Fields{
		"page":  p.page,
		"limit": p.limit,
	})

	data, err := p.fetchPage(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	total := 0
	if len(data) > 0 {
		total, err = p.fetchTotal(ctx)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
	} else {
		log.Debug("empty page, count query skipped")
	}

	span.SetAttributes(attribute.Int("aggpager.total", total))
	log.WithFields(logrus.Fields{
		"fetched": len(data),
		"total":   total,
	}).Debug("page aggregated")

	return p.build(data, total), nil
}

func (p *Paginator[D]) fetchPage(ctx context.Context) ([]D, error) {
	ctx, span := p.tracer.Start(ctx, "aggpager.fetchPage")
	defer span.End()

	cursor, err := p.coll.Aggregate(ctx, p.PagePipeline(), p.aggregate...)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	// All closes the cursor.
	data := make([]D, 0)
	if err = cursor.All(ctx, &data); err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("aggpager.fetched", len(data)))

	return data, nil
}

func (p *Paginator[D]) fetchTotal(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "aggpager.fetchTotal")
	defer span.End()

	cursor, err := p.coll.Aggregate(ctx, p.CountPipeline(), p.aggregate...)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	// $count emits nothing when no document matches. The page query saw
	// documents, so this only happens if they were removed in between.
	if !cursor.Next(ctx) {
		if err = cursor.Err(); err != nil {
			recordError(span, err)
			return 0, err
		}

		return 0, nil
	}

	var res countResult
	if err = cursor.Decode(&res); err != nil {
		recordError(span, err)
		return 0, err
	}

	return int(res.TotalCount), nil
}

func (p *Paginator[D]) build(data []D, total int) *Pagination[D] {
	bounds := computeBounds(total, p.page, p.limit)

	return &Pagination[D]{
		Data:         data,
		FirstPageURL: PageURL(p.url, p.query, 1),
		LastPageURL:  PageURL(p.url, p.query, bounds.lastPage),
		PrevPageURL: lo.Ternary[*string](
			p.page == 1,
			nil,
			lo.ToPtr(PageURL(p.url, p.query, p.page-1)),
		),
		NextPageURL: lo.Ternary[*string](
			p.page == bounds.lastPage,
			nil,
			lo.ToPtr(PageURL(p.url, p.query, p.page+1)),
		),
		Path:        p.url,
		PerPage:     p.limit,
		From:        bounds.from,
		To:          bounds.to,
		Total:       total,
		CurrentPage: p.page,
		LastPage:    bounds.lastPage,
	}
}

// isNilAggregator also catches nil driver handles wrapped in a non-nil
// interface, which would otherwise panic inside Aggregate.
func isNilAggregator(coll Aggregator) bool {
	switch c := coll.(type) {
	case nil:
		return true
	case *mongo.Collection:
		return c == nil
	case *mongo.Database:
		return c == nil
	default:
		return false
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
