// Package mongodb implements MongoDB adapters for the application.
package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"
)

const collectionRuns = "triage_runs"

// RecordAdapter implements out.RecordRepository using MongoDB. Run records
// are append-mostly documents; only the evaluation fields are updated after
// the initial save.
type RecordAdapter struct {
	collection *mongo.Collection
}

var _ out.RecordRepository = (*RecordAdapter)(nil)

// NewRecordAdapter creates a new MongoDB record adapter.
func NewRecordAdapter(db *mongo.Database) *RecordAdapter {
	return &RecordAdapter{collection: db.Collection(collectionRuns)}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *RecordAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// runDocument represents the MongoDB document structure. The full pipeline
// result is stored as a JSON blob; the fields queried on are kept flat.
type runDocument struct {
	RunID      string `bson:"run_id"`
	CustomerID string `bson:"customer_id,omitempty"`
	Tier       string `bson:"tier,omitempty"`
	Subject    string `bson:"subject"`
	From       string `bson:"from"`
	Status     string `bson:"status"`
	ErrorCode  string `bson:"error_code,omitempty"`

	Result []byte `bson:"result,omitempty"` // JSON-encoded domain.TriageResult

	Quality *qualityDocument `bson:"quality,omitempty"`
	Impact  *impactDocument  `bson:"impact,omitempty"`

	DurationMS float64   `bson:"duration_ms"`
	CreatedAt  time.Time `bson:"created_at"`
}

type qualityDocument struct {
	IssueCoverage   float64 `bson:"issue_coverage"`
	Tone            float64 `bson:"tone"`
	Professionalism float64 `bson:"professionalism"`
	Empathy         float64 `bson:"empathy"`
	Actionability   float64 `bson:"actionability"`
	Personalization float64 `bson:"personalization"`
	Overall         float64 `bson:"overall"`
}

type impactDocument struct {
	TimeSavedMinutes   float64 `bson:"time_saved_minutes"`
	QualityImprovement float64 `bson:"quality_improvement"`
	SatisfactionDelta  float64 `bson:"satisfaction_delta"`
	BusinessValue      float64 `bson:"business_value"`
}

func toDocument(record *domain.TriageRecord) (*runDocument, error) {
	doc := &runDocument{
		RunID:      record.RunID,
		CustomerID: record.CustomerID,
		Tier:       string(record.Tier),
		Subject:    record.Subject,
		From:       record.From,
		Status:     string(record.Status),
		ErrorCode:  record.ErrorCode,
		Quality:    toQualityDocument(record.Quality),
		Impact:     toImpactDocument(record.Impact),
		DurationMS: record.DurationMS,
		CreatedAt:  record.CreatedAt,
	}

	if record.Result != nil {
		data, err := json.Marshal(record.Result)
		if err != nil {
			return nil, err
		}
		doc.Result = data
	}

	return doc, nil
}

func (d *runDocument) toDomain() (*domain.TriageRecord, error) {
	record := &domain.TriageRecord{
		RunID:      d.RunID,
		CustomerID: d.CustomerID,
		Tier:       domain.Tier(d.Tier),
		Subject:    d.Subject,
		From:       d.From,
		Status:     domain.RunStatus(d.Status),
		ErrorCode:  d.ErrorCode,
		Quality:    d.Quality.toDomain(),
		Impact:     d.Impact.toDomain(),
		DurationMS: d.DurationMS,
		CreatedAt:  d.CreatedAt,
	}

	if len(d.Result) > 0 {
		var result domain.TriageResult
		if err := json.Unmarshal(d.Result, &result); err != nil {
			return nil, err
		}
		record.Result = &result
	}

	return record, nil
}

func toQualityDocument(q *domain.QualityScores) *qualityDocument {
	if q == nil {
		return nil
	}
	return &qualityDocument{
		IssueCoverage:   q.IssueCoverage,
		Tone:            q.Tone,
		Professionalism: q.Professionalism,
		Empathy:         q.Empathy,
		Actionability:   q.Actionability,
		Personalization: q.Personalization,
		Overall:         q.Overall,
	}
}

func (d *qualityDocument) toDomain() *domain.QualityScores {
	if d == nil {
		return nil
	}
	return &domain.QualityScores{
		IssueCoverage:   d.IssueCoverage,
		Tone:            d.Tone,
		Professionalism: d.Professionalism,
		Empathy:         d.Empathy,
		Actionability:   d.Actionability,
		Personalization: d.Personalization,
		Overall:         d.Overall,
	}
}

func toImpactDocument(i *domain.ImpactReport) *impactDocument {
	if i == nil {
		return nil
	}
	return &impactDocument{
		TimeSavedMinutes:   i.TimeSavedMinutes,
		QualityImprovement: i.QualityImprovement,
		SatisfactionDelta:  i.SatisfactionDelta,
		BusinessValue:      i.BusinessValue,
	}
}

func (d *impactDocument) toDomain() *domain.ImpactReport {
	if d == nil {
		return nil
	}
	return &domain.ImpactReport{
		TimeSavedMinutes:   d.TimeSavedMinutes,
		QualityImprovement: d.QualityImprovement,
		SatisfactionDelta:  d.SatisfactionDelta,
		BusinessValue:      d.BusinessValue,
	}
}

// Save upserts the run record keyed by run_id.
func (a *RecordAdapter) Save(ctx context.Context, record *domain.TriageRecord) error {
	if record == nil || record.RunID == "" {
		return apperr.MissingField("run_id")
	}

	doc, err := toDocument(record)
	if err != nil {
		return apperr.DatabaseError("encode triage record", err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := a.collection.ReplaceOne(ctx, bson.M{"run_id": record.RunID}, doc, opts); err != nil {
		return apperr.DatabaseError("save triage record", err)
	}
	return nil
}

// GetByRunID returns the record, or a NOT_FOUND error when it does not exist.
func (a *RecordAdapter) GetByRunID(ctx context.Context, runID string) (*domain.TriageRecord, error) {
	var doc runDocument
	err := a.collection.FindOne(ctx, bson.M{"run_id": runID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("triage run")
		}
		return nil, apperr.DatabaseError("get triage record", err)
	}

	record, err := doc.toDomain()
	if err != nil {
		return nil, apperr.DatabaseError("decode triage record", err)
	}
	return record, nil
}

// List returns records newest first.
func (a *RecordAdapter) List(ctx context.Context, limit, offset int) ([]*domain.TriageRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := a.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.DatabaseError("list triage records", err)
	}
	defer cursor.Close(ctx)

	var docs []runDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.DatabaseError("decode triage records", err)
	}

	records := make([]*domain.TriageRecord, 0, len(docs))
	for i := range docs {
		record, err := docs[i].toDomain()
		if err != nil {
			return nil, apperr.DatabaseError("decode triage record", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// SetEvaluation fills in the async quality and impact fields.
func (a *RecordAdapter) SetEvaluation(ctx context.Context, runID string, quality *domain.QualityScores, impact *domain.ImpactReport) error {
	update := bson.M{"$set": bson.M{
		"quality": toQualityDocument(quality),
		"impact":  toImpactDocument(impact),
	}}

	result, err := a.collection.UpdateOne(ctx, bson.M{"run_id": runID}, update)
	if err != nil {
		return apperr.DatabaseError("set evaluation", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("triage run")
	}
	return nil
}
