// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	a2a "github.com/go-a2a/a2a-bearer"
)

// DatabaseTaskStore is a TaskStore backed by a relational database through GORM.
type DatabaseTaskStore struct {
	db          *gorm.DB
	tableName   string
	createTable bool
	owned       bool
}

var _ TaskStore = (*DatabaseTaskStore)(nil)

// DatabaseTaskStoreConfig holds configuration for DatabaseTaskStore.
type DatabaseTaskStoreConfig struct {
	DB          *gorm.DB
	TableName   string // Optional, defaults to DefaultTableName
	CreateTable bool   // Whether Initialize migrates the table
}

// NewDatabaseTaskStore creates a new DatabaseTaskStore on an existing connection.
// The caller keeps ownership of config.DB.
func NewDatabaseTaskStore(config DatabaseTaskStoreConfig) (*DatabaseTaskStore, error) {
	if config.DB == nil {
		return nil, errors.New("database connection cannot be nil")
	}

	tableName := config.TableName
	if tableName == "" {
		tableName = DefaultTableName
	}

	return &DatabaseTaskStore{
		db:          config.DB,
		tableName:   tableName,
		createTable: config.CreateTable,
	}, nil
}

var _ Transactor = (*DatabaseTaskStore)(nil)

// OpenSQLite opens a SQLite database at dsn and returns a store that owns the connection.
// Use ":memory:" or "file::memory:?cache=shared" for a throwaway database.
func OpenSQLite(dsn string) (*DatabaseTaskStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// An in-memory database lives only as long as its connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DatabaseTaskStore{
		db:          db,
		tableName:   DefaultTableName,
		createTable: true,
		owned:       true,
	}, nil
}

func (s *DatabaseTaskStore) table(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.tableName)
}

// Save inserts or updates task.
func (s *DatabaseTaskStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return ErrNilTask
	}
	if err := task.Validate(); err != nil {
		return TaskValidationError{TaskID: task.ID, Err: err}
	}

	if err := s.table(ctx).Save(newTaskModel(task)).Error; err != nil {
		return NewTaskStoreError("save", task.ID, err)
	}
	return nil
}

// Get retrieves a task by its ID.
func (s *DatabaseTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}

	var model TaskModel
	if err := s.table(ctx).Where("id = ?", taskID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, a2a.TaskNotFoundError{TaskID: taskID}
		}
		return nil, NewTaskStoreError("get", taskID, err)
	}
	return model.toTask(), nil
}

// Delete removes a task by its ID.
func (s *DatabaseTaskStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return ErrEmptyTaskID
	}

	result := s.table(ctx).Where("id = ?", taskID).Delete(&TaskModel{})
	if result.Error != nil {
		return NewTaskStoreError("delete", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	return nil
}

// List retrieves tasks ordered by ID.
func (s *DatabaseTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error) {
	db := s.table(ctx)
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		// SQLite rejects OFFSET without LIMIT; -1 means unbounded.
		if limit <= 0 {
			db = db.Limit(-1)
		}
		db = db.Offset(offset)
	}

	var models []TaskModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, NewTaskStoreError("list", "", err)
	}

	tasks := make([]*a2a.Task, len(models))
	for i := range models {
		tasks[i] = models[i].toTask()
	}
	return tasks, nil
}

// Count returns the number of stored tasks.
func (s *DatabaseTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	db := s.table(ctx).Model(&TaskModel{})
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, NewTaskStoreError("count", "", err)
	}
	return count, nil
}

// ListByState retrieves tasks currently in state, ordered by ID.
func (s *DatabaseTaskStore) ListByState(ctx context.Context, state a2a.TaskState) ([]*a2a.Task, error) {
	var models []TaskModel
	if err := s.table(ctx).Where("state = ?", string(state)).Order("id").Find(&models).Error; err != nil {
		return nil, NewTaskStoreError("list_by_state", "", err)
	}

	tasks := make([]*a2a.Task, len(models))
	for i := range models {
		tasks[i] = models[i].toTask()
	}
	return tasks, nil
}

// Initialize creates the task table when the store was configured to do so.
func (s *DatabaseTaskStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.table(ctx).AutoMigrate(&TaskModel{}); err != nil {
		return NewTaskStoreError("initialize", "", err)
	}
	return nil
}

// Close closes the underlying connection if the store opened it.
func (s *DatabaseTaskStore) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return NewTaskStoreError("close", "", err)
	}
	if err := sqlDB.Close(); err != nil {
		return NewTaskStoreError("close", "", err)
	}
	return nil
}

// Transaction runs fn with a store bound to a single database transaction.
func (s *DatabaseTaskStore) Transaction(ctx context.Context, fn func(TaskStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DatabaseTaskStore{
			db:          tx,
			tableName:   s.tableName,
			createTable: s.createTable,
		})
	})
}
