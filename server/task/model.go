// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"

	a2a "github.com/go-a2a/a2a-bearer"
)

// DefaultTableName is the table used by [DatabaseTaskStore] unless configured otherwise.
const DefaultTableName = "tasks"

// jsonColumn stores V as a JSON document in a text column.
type jsonColumn[V any] struct {
	V V
}

// Value implements the driver.Valuer interface for database storage.
func (c jsonColumn[V]) Value() (driver.Value, error) {
	b, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (c *jsonColumn[V]) Scan(value any) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		var zero V
		c.V = zero
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, c.V)
	}

	var out V
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("cannot unmarshal %T: %w", out, err)
	}
	c.V = out
	return nil
}

// TaskModel is the database row of a task.
//
// State is denormalised out of Status so that tasks can be filtered by state
// without JSON functions.
type TaskModel struct {
	ID        string                     `gorm:"primaryKey;type:varchar(255)"`
	SessionID string                     `gorm:"index;type:varchar(255)"`
	State     string                     `gorm:"index;type:varchar(32)"`
	Status    jsonColumn[a2a.TaskStatus] `gorm:"type:text"`
	History   jsonColumn[[]a2a.Message]  `gorm:"type:text"`
	Artifacts jsonColumn[[]a2a.Artifact] `gorm:"type:text"`
	Metadata  jsonColumn[map[string]any] `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns [DefaultTableName].
func (TaskModel) TableName() string {
	return DefaultTableName
}

// newTaskModel converts task into its database row.
func newTaskModel(task *a2a.Task) *TaskModel {
	return &TaskModel{
		ID:        task.ID,
		SessionID: task.SessionID,
		State:     string(task.Status.State),
		Status:    jsonColumn[a2a.TaskStatus]{V: task.Status},
		History:   jsonColumn[[]a2a.Message]{V: task.History},
		Artifacts: jsonColumn[[]a2a.Artifact]{V: task.Artifacts},
		Metadata:  jsonColumn[map[string]any]{V: task.Metadata},
	}
}

// toTask converts the row back into a task.
func (m *TaskModel) toTask() *a2a.Task {
	return &a2a.Task{
		ID:        m.ID,
		SessionID: m.SessionID,
		Status:    m.Status.V,
		History:   m.History.V,
		Artifacts: m.Artifacts.V,
		Metadata:  m.Metadata.V,
	}
}
