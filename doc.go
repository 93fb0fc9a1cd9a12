// Package aggpager provides offset pagination primitives for MongoDB
// aggregation pipelines.
//
// Overview
//
// aggpager takes a caller-built aggregation pipeline and turns it into a
// single page of results plus navigation metadata:
//   - the page query: pipeline + $skip + $limit [+ $project];
//   - the count query: pipeline + $count, executed only when the page is
//     not empty;
//   - page arithmetic (from, to, last page) and four navigation URLs.
//
// Key concepts
//   - Paginator: orchestrates both queries for one request. It is read-only
//     after construction and safe for concurrent use.
//   - Options: page, limit, base URL, query-string fragment and projection.
//   - Pagination: the result container, ready for JSON serialization.
//   - Aggregator: anything with an Aggregate method, e.g. *mongo.Collection.
//
// The caller's pipeline must contain its own $sort stage when a stable order
// matters. aggpager never inspects or reorders stages.
package aggpager
