package evalstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"insureval/src/core/evaluation"
)

type newQuestionRow struct {
	ID        int64           `gorm:"primaryKey"`
	CreatedAt time.Time       `gorm:"index"`
	Question  string          `gorm:"not null"`
	Payload   json.RawMessage `gorm:"type:jsonb;not null"`
}

func (newQuestionRow) TableName() string {
	return "new_questions"
}

type evaluationRow struct {
	ID           int64           `gorm:"primaryKey"`
	CreatedAt    time.Time       `gorm:"index"`
	UserQuestion string          `gorm:"not null;column:user_question"`
	Payload      json.RawMessage `gorm:"type:jsonb;not null"`
}

func (evaluationRow) TableName() string {
	return "production_evaluations"
}

// PostgresStore persists the append-only collections as JSONB payload
// rows. Row inserts give the per-record atomicity the pipeline needs
// under concurrent appends.
type PostgresStore struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	// Node number 1 for evaluation records
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&newQuestionRow{}, &evaluationRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate evaluation tables: %v", err)
	}

	return &PostgresStore{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *PostgresStore) AppendNewQuestion(ctx context.Context, rec evaluation.NewQuestionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal new question record: %w", err)
	}

	row := &newQuestionRow{
		ID:        s.snowflake.Generate().Int64(),
		CreatedAt: rec.Timestamp,
		Question:  rec.Question,
		Payload:   payload,
	}

	result := s.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return fmt.Errorf("failed to create new question row: %v", result.Error)
	}
	return nil
}

func (s *PostgresStore) AppendEvaluation(ctx context.Context, rec evaluation.EvaluationRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation record: %w", err)
	}

	row := &evaluationRow{
		ID:           s.snowflake.Generate().Int64(),
		CreatedAt:    rec.Timestamp,
		UserQuestion: rec.UserQuestion,
		Payload:      payload,
	}

	result := s.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return fmt.Errorf("failed to create evaluation row: %v", result.Error)
	}
	return nil
}

func (s *PostgresStore) NewQuestionCount(ctx context.Context) (int, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&newQuestionRow{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count new questions: %v", result.Error)
	}
	return int(count), nil
}

func (s *PostgresStore) EvaluationCount(ctx context.Context) (int, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&evaluationRow{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count evaluations: %v", result.Error)
	}
	return int(count), nil
}

func (s *PostgresStore) RecentNewQuestions(ctx context.Context, k int) ([]evaluation.NewQuestionRecord, error) {
	if k <= 0 {
		return []evaluation.NewQuestionRecord{}, nil
	}

	var rows []newQuestionRow
	result := s.db.WithContext(ctx).Order("created_at desc").Limit(k).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get recent new questions: %v", result.Error)
	}

	records := make([]evaluation.NewQuestionRecord, 0, len(rows))
	for _, row := range rows {
		var rec evaluation.NewQuestionRecord
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new question payload: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
