package aggpager

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TotalCountField is the field name produced by the $count stage of the
// count query.
const TotalCountField = "totalCount"

// Pipeline is an ordered list of aggregation stages. Each stage is a single
// operator document such as bson.D{{Key: "$match", Value: ...}}.
type Pipeline = mongo.Pipeline

func SkipStage(n int) bson.D {
	return bson.D{{Key: "$skip", Value: int64(n)}}
}

func LimitStage(n int) bson.D {
	return bson.D{{Key: "$limit", Value: int64(n)}}
}

// ProjectStage wraps a projection document. The projection is forwarded
// as-is, aggpager does not look inside it.
func ProjectStage(projection any) bson.D {
	return bson.D{{Key: "$project", Value: projection}}
}

func CountStage(field string) bson.D {
	return bson.D{{Key: "$count", Value: field}}
}

// PageStages returns the stages that carve page out of a result set:
//
//	[$skip (page-1)*limit, $limit limit]
//
// followed by $project when projection is not nil.
func PageStages(page, limit int, projection any) Pipeline {
	stages := Pipeline{
		SkipStage((page - 1) * limit),
		LimitStage(limit),
	}
	if projection != nil {
		stages = append(stages, ProjectStage(projection))
	}

	return stages
}

// extend returns a new pipeline consisting of base followed by stages.
// base is never written to, even when it has spare capacity.
func extend(base Pipeline, stages ...bson.D) Pipeline {
	ret := make(Pipeline, 0, len(base)+len(stages))
	ret = append(ret, base...)
	ret = append(ret, stages...)

	return ret
}
