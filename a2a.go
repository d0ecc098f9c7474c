// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the Agent-to-Agent (A2A) protocol types shared by the
// bearer-authenticated test agent server and client.
package a2a

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the current version of the A2A protocol.
const Version = "0.1.0"

// TaskState represents the state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been submitted.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateCompleted indicates the task has been completed.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task has been canceled.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task has failed.
	TaskStateFailed TaskState = "failed"
)

// IsFinal reports whether the state is terminal.
func (s TaskState) IsFinal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed:
		return true
	default:
		return false
	}
}

// Role identifies the sender of a [Message].
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// PartType is the discriminator of a [Part].
type PartType string

const (
	PartTypeText PartType = "text"
	PartTypeData PartType = "data"
)

// Part represents a part of a message or artifact.
//
// Text parts carry Text, data parts carry Data.
type Part struct {
	Type     PartType       `json:"type"`
	Text     string         `json:"text,omitzero"`
	Data     map[string]any `json:"data,omitzero"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextPart returns a text [Part].
func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// NewDataPart returns a data [Part].
func NewDataPart(data map[string]any) Part {
	return Part{Type: PartTypeData, Data: data}
}

// Message represents a message in a task, which can be from a user or agent.
type Message struct {
	Role     Role           `json:"role"`
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextMessage returns a message with a single text part.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:  role,
		Parts: []Part{NewTextPart(text)},
	}
}

// Text joins the text parts of the message with a single space.
func (m Message) Text() string {
	var text string
	for _, p := range m.Parts {
		if p.Type != PartTypeText {
			continue
		}
		if text != "" {
			text += " "
		}
		text += p.Text
	}
	return text
}

// Artifact represents an output generated during a task.
type Artifact struct {
	Name        string         `json:"name,omitzero"`
	Description string         `json:"description,omitzero"`
	Parts       []Part         `json:"parts"`
	Index       int            `json:"index"`
	Metadata    map[string]any `json:"metadata,omitzero"`
}

// TaskStatus represents the status of a task at a point in time.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp time.Time `json:"timestamp"`
}

// Task represents a unit of work in the A2A protocol.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitzero"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitzero"`
	Artifacts []Artifact     `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// NewTask returns a submitted task for message. An empty id is replaced by a random UUID.
func NewTask(id, sessionID string, message Message) *Task {
	if id == "" {
		id = uuid.NewString()
	}
	return &Task{
		ID:        id,
		SessionID: sessionID,
		Status: TaskStatus{
			State:     TaskStateSubmitted,
			Timestamp: time.Now().UTC(),
		},
		History: []Message{message},
	}
}

// Validate reports whether the task can be persisted.
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.New("task ID is required")
	}
	switch t.Status.State {
	case TaskStateSubmitted, TaskStateWorking, TaskStateCompleted, TaskStateCanceled, TaskStateFailed:
	default:
		return fmt.Errorf("invalid task state %q", t.Status.State)
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Status.Message != nil {
		msg := cloneMessage(*t.Status.Message)
		c.Status.Message = &msg
	}
	if t.History != nil {
		c.History = make([]Message, len(t.History))
		for i, m := range t.History {
			c.History[i] = cloneMessage(m)
		}
	}
	if t.Artifacts != nil {
		c.Artifacts = make([]Artifact, len(t.Artifacts))
		for i, a := range t.Artifacts {
			a.Parts = cloneParts(a.Parts)
			a.Metadata = cloneMap(a.Metadata)
			c.Artifacts[i] = a
		}
	}
	c.Metadata = cloneMap(t.Metadata)
	return &c
}

// TrimHistory returns a copy of the task whose history holds at most the last n messages.
// A nil n keeps the full history; zero drops it.
func (t *Task) TrimHistory(n *int) *Task {
	c := t.Clone()
	if n == nil {
		return c
	}
	switch {
	case *n <= 0:
		c.History = nil
	case *n < len(c.History):
		c.History = c.History[len(c.History)-*n:]
	}
	return c
}

func cloneMessage(m Message) Message {
	m.Parts = cloneParts(m.Parts)
	m.Metadata = cloneMap(m.Metadata)
	return m
}

func cloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i, p := range parts {
		p.Data = cloneMap(p.Data)
		p.Metadata = cloneMap(p.Metadata)
		out[i] = p
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AgentCapabilities defines optional capabilities supported by an agent.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentProvider represents the service provider of an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url"`
}

// AgentSkill represents a unit of capability that an agent can perform.
type AgentSkill struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitzero"`
	Tags        []string       `json:"tags,omitzero"`
	Examples    []string       `json:"examples,omitzero"`
	Parameters  map[string]any `json:"parameters,omitzero"`
}

// AgentAuthentication describes the authentication schemes an agent requires.
type AgentAuthentication struct {
	// Schemes lists the supported schemes, e.g. "Bearer".
	Schemes []string `json:"schemes"`

	// Description is a human-readable explanation of the requirement.
	Description string `json:"description,omitzero"`
}

// AgentCard conveys the overall details, capabilities, skills and
// authentication requirements of an agent.
type AgentCard struct {
	Name               string               `json:"name"`
	Description        string               `json:"description,omitzero"`
	URL                string               `json:"url"`
	Version            string               `json:"version"`
	Provider           *AgentProvider       `json:"provider,omitzero"`
	Capabilities       AgentCapabilities    `json:"capabilities"`
	Authentication     *AgentAuthentication `json:"authentication,omitzero"`
	DefaultInputModes  []string             `json:"defaultInputModes"`
	DefaultOutputModes []string             `json:"defaultOutputModes"`
	Skills             []AgentSkill         `json:"skills"`
}

// Clone returns a copy of the card that shares no mutable state with c.
func (c AgentCard) Clone() AgentCard {
	if c.Provider != nil {
		p := *c.Provider
		c.Provider = &p
	}
	if c.Authentication != nil {
		a := *c.Authentication
		a.Schemes = append([]string(nil), a.Schemes...)
		c.Authentication = &a
	}
	c.DefaultInputModes = append([]string(nil), c.DefaultInputModes...)
	c.DefaultOutputModes = append([]string(nil), c.DefaultOutputModes...)
	c.Skills = append([]AgentSkill(nil), c.Skills...)
	return c
}
