package repository

import (
	"errors"
	"fmt"

	"github.com/nkechi/Smartprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultRepository interface {
	// AppendTest atomically appends a graded record to the child's history,
	// creating the history row on first submission. Concurrent appends for
	// the same child are serialized by a row lock, so no submission can
	// overwrite another.
	AppendTest(childID uint, childName string, record *model.TestRecord) (*model.ChildHistory, error)
	// FindByChildID returns the child's history with tests in insertion
	// order, or nil when the child has never submitted.
	FindByChildID(childID uint) (*model.ChildHistory, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) AppendTest(childID uint, childName string, record *model.TestRecord) (*model.ChildHistory, error) {
	var historyID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var history model.ChildHistory
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("child_id = ?", childID).
			First(&history).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			history = model.ChildHistory{ChildID: childID, ChildName: childName}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to create child history: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to lock child history: %w", err)
		}

		record.ChildHistoryID = history.ID
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to append test record: %w", err)
		}
		historyID = history.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.findByHistoryID(historyID)
}

func (r *resultRepository) FindByChildID(childID uint) (*model.ChildHistory, error) {
	var history model.ChildHistory
	err := r.preloadTests(r.db).Where("child_id = ?", childID).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *resultRepository) findByHistoryID(id uint) (*model.ChildHistory, error) {
	var history model.ChildHistory
	if err := r.preloadTests(r.db).First(&history, id).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *resultRepository) preloadTests(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tests", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_records.id ASC")
		}).
		Preload("Tests.Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("subject_results.id ASC")
		})
}
