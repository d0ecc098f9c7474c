// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package worker executes the work behind A2A tasks.
package worker

import (
	"context"

	a2a "github.com/go-a2a/a2a-bearer"
)

// Worker processes the user message of a task and produces the agent reply.
type Worker interface {
	// Process handles message. A returned error fails the task.
	Process(ctx context.Context, message a2a.Message) (*Result, error)
}

// Func adapts an ordinary function to the [Worker] interface.
type Func func(ctx context.Context, message a2a.Message) (*Result, error)

// Process calls f(ctx, message).
func (f Func) Process(ctx context.Context, message a2a.Message) (*Result, error) {
	return f(ctx, message)
}

// ResultArtifactName is the name of the data artifact attached to every result.
const ResultArtifactName = "task_result"

// Result is the outcome of processing a message.
type Result struct {
	// TaskType classifies the handled request, e.g. "echo" or "math".
	TaskType string

	// Response is the text of the agent reply.
	Response string

	// Data holds structured details of the result. TaskType and Response
	// are added to it when the artifact is built.
	Data map[string]any
}

// Message returns the agent reply message.
func (r *Result) Message() a2a.Message {
	return a2a.NewTextMessage(a2a.RoleAgent, r.Response)
}

// Artifacts returns the artifacts describing r.
func (r *Result) Artifacts() []a2a.Artifact {
	data := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		data[k] = v
	}
	data["task_type"] = r.TaskType
	data["response"] = r.Response

	return []a2a.Artifact{{
		Name:        ResultArtifactName,
		Description: "Result of the processed task",
		Parts:       []a2a.Part{a2a.NewDataPart(data)},
		Index:       0,
	}}
}

// Skills returns the agent card skills exposed by [Basic].
func Skills() []a2a.AgentSkill {
	return []a2a.AgentSkill{
		{
			ID:          "echo_task",
			Name:        "echo_task",
			Description: "Echo back any text provided by the user",
			Tags:        []string{"basic", "text"},
			Examples:    []string{"echo hello world"},
			Parameters:  map[string]any{"text": "string"},
		},
		{
			ID:          "math_operations",
			Name:        "math_operations",
			Description: "Perform basic math operations like addition, subtraction, multiplication, division",
			Tags:        []string{"basic", "math", "computation"},
			Examples:    []string{"add 2 and 3", "divide 10 by 4"},
			Parameters:  map[string]any{"operation": "string", "numbers": "array"},
		},
		{
			ID:          "text_processing",
			Name:        "text_processing",
			Description: "Process text with operations like uppercase, lowercase, reverse, word count",
			Tags:        []string{"basic", "text", "processing"},
			Examples:    []string{"uppercase hello", "count words in a b c"},
			Parameters:  map[string]any{"text": "string", "operation": "string"},
		},
		{
			ID:          "json_operations",
			Name:        "json_operations",
			Description: "Parse, validate, and manipulate JSON data",
			Tags:        []string{"basic", "json", "data"},
			Examples:    []string{`parse json {"a": 1}`},
			Parameters:  map[string]any{"json_data": "string", "operation": "string"},
		},
	}
}
