// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/internal/pool"
)

// Task types reported by [Basic].
const (
	TypeEcho    = "echo"
	TypeMath    = "math"
	TypeText    = "text_processing"
	TypeJSON    = "json"
	TypeGeneral = "general"
)

var (
	echoRe   = regexp.MustCompile(`echo\s+(.+)`)
	repeatRe = regexp.MustCompile(`repeat\s+(.+)`)
	numberRe = regexp.MustCompile(`-?\d+\.?\d*`)
	jsonRe   = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

	upperRe = regexp.MustCompile(`uppercase\s+(.+)`)
	lowerRe = regexp.MustCompile(`lowercase\s+(.+)`)
	revRe   = regexp.MustCompile(`reverse\s+(.+)`)
	countRe = regexp.MustCompile(`count\s+(?:words?\s+in\s+)?(.+)`)
)

// Capabilities lists the commands understood by [Basic].
var Capabilities = []string{
	"echo <text> - repeat the text",
	"add/multiply/subtract/divide <numbers> - basic math",
	"uppercase/lowercase/reverse/count <text> - text processing",
	"parse/format json - JSON handling",
}

// Basic handles simple computational requests without any external service.
//
// The request text is the lowercased concatenation of the text parts of the
// message. The first matching rule wins: echo, math, text, json, general.
type Basic struct {
	delay time.Duration
}

var _ Worker = (*Basic)(nil)

// BasicOption configures a [Basic] worker.
type BasicOption func(*Basic)

// WithDelay makes the worker wait d before answering, which keeps tasks in
// the working state long enough to be observed or canceled.
func WithDelay(d time.Duration) BasicOption {
	return func(b *Basic) {
		b.delay = d
	}
}

// NewBasic returns a [Basic] worker.
func NewBasic(opts ...BasicOption) *Basic {
	b := &Basic{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Process implements [Worker].
func (b *Basic) Process(ctx context.Context, message a2a.Message) (*Result, error) {
	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(message.Text()))

	switch {
	case containsAny(text, "echo", "repeat"):
		return echo(text), nil
	case containsAny(text, "add", "multiply", "subtract", "divide", "math"):
		return calculate(text), nil
	case containsAny(text, "uppercase", "lowercase", "reverse", "count"):
		return transform(text), nil
	case strings.Contains(text, "json") && containsAny(text, "parse", "format"):
		return formatJSON(text), nil
	default:
		return &Result{
			TaskType: TypeGeneral,
			Response: "Processed general task: " + text,
			Data: map[string]any{
				"input":        text,
				"capabilities": slices.Clone(Capabilities),
			},
		}, nil
	}
}

func echo(text string) *Result {
	input := text
	for _, re := range []*regexp.Regexp{echoRe, repeatRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			input = m[1]
			break
		}
	}
	return &Result{
		TaskType: TypeEcho,
		Response: "Echo: " + input,
		Data:     map[string]any{"input": input},
	}
}

func calculate(text string) *Result {
	var numbers []float64
	for _, s := range numberRe.FindAllString(text, -1) {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	if len(numbers) < 2 {
		return &Result{
			TaskType: TypeMath,
			Response: "Error: Need at least two numbers for math operations",
			Data:     map[string]any{"numbers": numbers},
		}
	}

	var (
		result    float64
		operation string
	)
	switch {
	case containsAny(text, "add", "+"):
		operation = "addition"
		for _, n := range numbers {
			result += n
		}
	case containsAny(text, "multiply", "*"):
		operation = "multiplication"
		result = 1
		for _, n := range numbers {
			result *= n
		}
	case containsAny(text, "subtract", "-"):
		operation = "subtraction"
		result = numbers[0]
		for _, n := range numbers[1:] {
			result -= n
		}
	case containsAny(text, "divide", "/"):
		operation = "division"
		result = numbers[0]
		for _, n := range numbers[1:] {
			if n == 0 {
				return &Result{
					TaskType: TypeMath,
					Response: "Error: Division by zero",
					Data:     map[string]any{"numbers": numbers},
				}
			}
			result /= n
		}
	default:
		var sum float64
		for _, n := range numbers {
			sum += n
		}
		if !isFinite(sum) {
			return outOfRange(numbers)
		}
		return &Result{
			TaskType: TypeMath,
			Response: fmt.Sprintf("Math result for numbers %s: %s (default: sum)", formatNumbers(numbers), formatNumber(sum)),
			Data:     map[string]any{"numbers": numbers, "result": sum},
		}
	}
	if !isFinite(result) {
		return outOfRange(numbers)
	}

	return &Result{
		TaskType: TypeMath,
		Response: fmt.Sprintf("%s of %s = %s", title(operation), formatNumbers(numbers), formatNumber(result)),
		Data: map[string]any{
			"numbers":   numbers,
			"operation": operation,
			"result":    result,
		},
	}
}

// outOfRange reports a result that has no JSON representation.
func outOfRange(numbers []float64) *Result {
	return &Result{
		TaskType: TypeMath,
		Response: "Error: Result out of range",
		Data:     map[string]any{"numbers": numbers},
	}
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func transform(text string) *Result {
	target := text
	capture := func(re *regexp.Regexp) {
		if m := re.FindStringSubmatch(text); m != nil {
			target = m[1]
		}
	}

	var result, operation string
	switch {
	case strings.Contains(text, "uppercase"):
		capture(upperRe)
		operation, result = "uppercase", strings.ToUpper(target)
	case strings.Contains(text, "lowercase"):
		capture(lowerRe)
		operation, result = "lowercase", strings.ToLower(target)
	case strings.Contains(text, "reverse"):
		capture(revRe)
		operation, result = "reverse", reverse(target)
	case strings.Contains(text, "count"):
		capture(countRe)
		operation = "count"
		result = fmt.Sprintf("Words: %d, Characters: %d", len(strings.Fields(target)), utf8.RuneCountInString(target))
	default:
		operation, result = "unknown", target
	}

	return &Result{
		TaskType: TypeText,
		Response: fmt.Sprintf("%s result: %s", title(operation), result),
		Data: map[string]any{
			"input":     target,
			"operation": operation,
			"result":    result,
		},
	}
}

func formatJSON(text string) *Result {
	raw := jsonRe.FindString(text)
	if raw == "" {
		return &Result{
			TaskType: TypeJSON,
			Response: "No JSON found in the text",
			Data:     map[string]any{"input": text},
		}
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &Result{
			TaskType: TypeJSON,
			Response: "Invalid JSON: " + err.Error(),
			Data:     map[string]any{"input": raw, "error": err.Error()},
		}
	}
	formatted, err := json.Marshal(parsed, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return &Result{
			TaskType: TypeJSON,
			Response: "Error processing JSON: " + err.Error(),
			Data:     map[string]any{"input": raw, "error": err.Error()},
		}
	}

	return &Result{
		TaskType: TypeJSON,
		Response: "Parsed and formatted JSON:\n" + string(formatted),
		Data:     map[string]any{"input": raw, "parsed": parsed},
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNumbers(numbers []float64) string {
	sb := pool.String.Get()
	defer pool.String.Put(sb)

	sb.WriteByte('[')
	for i, n := range numbers {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatNumber(n))
	}
	sb.WriteByte(']')
	return sb.String()
}
