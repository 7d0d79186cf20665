package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const dateLayout = "2006-01-02"

// Postgres is the gorm-backed Store.
type Postgres struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

var _ Store = (*Postgres)(nil)

// Open connects to the Postgres database at dsn.
func Open(dsn string, log logrus.FieldLogger) (*Postgres, error) {
	if dsn == "" {
		return nil, ErrNotConfigured
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect remote database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an open gorm connection.
func New(db *gorm.DB, log logrus.FieldLogger) *Postgres {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Postgres{db: db, log: log}
}

// Migrate creates or updates every remote table. The grading procedure is
// installed separately by the backend.
func (p *Postgres) Migrate(ctx context.Context) error {
	return p.db.WithContext(ctx).AutoMigrate(Models()...)
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func preloadQuiz(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (p *Postgres) QuizPuzzleByDate(ctx context.Context, date string) (*QuizPuzzle, error) {
	var row QuizPuzzle
	err := preloadQuiz(p.db.WithContext(ctx)).
		Where("puzzle_date = ? AND is_active = ?", date, true).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (p *Postgres) QuizAttempt(ctx context.Context, userID, puzzleID string) (*UserQuizAttempt, error) {
	var row UserQuizAttempt
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (p *Postgres) CategoryID(ctx context.Context, name string) (string, error) {
	var row Category
	if err := p.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return "", notFound(err)
	}
	return row.ID.String(), nil
}

func (p *Postgres) CompletedQuizIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := p.db.WithContext(ctx).
		Model(&UserQuizAttempt{}).
		Where("user_id = ?", userID).
		Pluck("puzzle_id::text", &ids).Error
	return ids, err
}

func (p *Postgres) PracticeCandidates(ctx context.Context, categoryID string, exclude []string, limit int) ([]QuizPuzzle, error) {
	query := preloadQuiz(p.db.WithContext(ctx)).
		Where("is_active = ? AND category_id = ?", true, categoryID)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	var rows []QuizPuzzle
	err := query.Order("puzzle_date DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (p *Postgres) SubmitQuizAttempt(ctx context.Context, userID, puzzleID string, answers []Answer) (*GradeRow, error) {
	b, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	var rows []GradeRow
	err = p.db.WithContext(ctx).
		Raw(`SELECT attempt_id::text AS attempt_id, score, correct_count, question_count, is_correct
			FROM submit_quiz_attempt(?, ?, ?)`, userID, puzzleID, datatypes.JSON(b)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (p *Postgres) TonePuzzles(ctx context.Context) ([]TonePuzzle, error) {
	var rows []TonePuzzle
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (p *Postgres) UpsertTonePuzzles(ctx context.Context, rows []TonePuzzle) error {
	if len(rows) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"message", "category", "difficulty", "is_active",
				"target_anger", "target_affection", "target_anxiety", "target_joy", "target_control",
			}),
		}).
		Create(&rows).Error
}

func (p *Postgres) TonePuzzleIDs(ctx context.Context, dates []string) (map[string]string, error) {
	out := make(map[string]string, len(dates))
	if len(dates) == 0 {
		return out, nil
	}
	var rows []TonePuzzle
	err := p.db.WithContext(ctx).
		Select("id", "date").
		Where("date IN ?", dates).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.Date.UTC().Format(dateLayout)] = r.ID.String()
	}
	return out, nil
}

func (p *Postgres) UpsertToneAttempts(ctx context.Context, rows []ToneAttempt) error {
	if len(rows) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "puzzle_id"}, {Name: "attempt_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"resonance", "guess_anger", "guess_affection", "guess_anxiety",
				"guess_joy", "guess_control", "hints", "created_at",
			}),
		}).
		Create(&rows).Error
}

func (p *Postgres) UpsertEntitlement(ctx context.Context, row Entitlement) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&row).Error
}
