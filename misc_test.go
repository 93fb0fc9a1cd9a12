package aggpager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tArticle struct {
	ID    int    `bson:"_id" json:"id"`
	Title string `bson:"title" json:"title"`
}

func newArticles(n int) []bson.M {
	ret := make([]bson.M, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, bson.M{"_id": i, "title": fmt.Sprintf("article #%d", i)})
	}

	return ret
}

// fakeAggregator evaluates $skip, $limit and $count over a fixed document
// set the way a server would. $match and $project are recorded but not
// applied: fixtures are expected to be pre-filtered.
type fakeAggregator struct {
	docs []bson.M

	// aggregateErr is returned from every Aggregate call.
	aggregateErr error
	// countErr is returned only from the count query.
	countErr error
	// emptyCount makes $count emit no document at all.
	emptyCount bool

	mu        sync.Mutex
	pipelines []Pipeline
	opts      [][]*options.AggregateOptions
}

func newFakeAggregator(docs []bson.M) *fakeAggregator {
	return &fakeAggregator{docs: docs}
}

func (f *fakeAggregator) Aggregate(
	_ context.Context,
	pipeline interface{},
	opts ...*options.AggregateOptions,
) (*mongo.Cursor, error) {
	stages, ok := pipeline.(Pipeline)
	if !ok {
		return nil, fmt.Errorf("unexpected pipeline type %T", pipeline)
	}

	f.mu.Lock()
	f.pipelines = append(f.pipelines, stages)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()

	if f.aggregateErr != nil {
		return nil, f.aggregateErr
	}

	docs := f.docs
	for _, stage := range stages {
		if len(stage) != 1 {
			return nil, errors.New("a pipeline stage specification object must contain exactly one field")
		}

		switch stage[0].Key {
		case "$skip":
			n := stage[0].Value.(int64)
			if n < 0 {
				return nil, errors.New("invalid argument to $skip stage: expected a non-negative number")
			}
			docs = docs[min(int(n), len(docs)):]
		case "$limit":
			n := stage[0].Value.(int64)
			if n <= 0 {
				return nil, errors.New("invalid argument to $limit stage: expected a positive number")
			}
			docs = docs[:min(int(n), len(docs))]
		case "$count":
			if f.countErr != nil {
				return nil, f.countErr
			}
			if f.emptyCount || len(docs) == 0 {
				return mongo.NewCursorFromDocuments(nil, nil, nil)
			}

			field := stage[0].Value.(string)
			return mongo.NewCursorFromDocuments(
				[]interface{}{bson.M{field: int32(len(docs))}},
				nil,
				nil,
			)
		}
	}

	return mongo.NewCursorFromDocuments(lo.ToAnySlice(docs), nil, nil)
}

func (f *fakeAggregator) calls() []Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Pipeline(nil), f.pipelines...)
}
