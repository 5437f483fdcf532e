// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package prompt builds the instruction sent to the rewriting oracle and
// validates its reply.
//
// # Protocol
//
// The oracle is told to prepend a success marker when it complied and a
// failure marker when it could not. A reply carrying neither marker did not
// follow the protocol and is never trusted: the caller gets an error and
// must leave the document untouched. The markers are part of the wire
// protocol shared with every deployed panel build and must not change.
package prompt

import (
	"errors"
	"strings"
	"sync"
)

const (
	// SuccessPrefix marks a compliant rewrite. Everything after it is the
	// rewritten text.
	SuccessPrefix = "_yessir:"

	// FailPrefix marks an explicit refusal by the oracle.
	FailPrefix = "_sorry, I cannae do that capn!"

	// MaxCompletionTokens caps the oracle's output. A fixed generous
	// ceiling avoids truncating long rewrites; scaling with input length
	// proved to cut responses off.
	MaxCompletionTokens = 1024

	// DefaultTemperature for rewrite completions.
	DefaultTemperature float32 = 0.6
)

const (
	defaultRole = "Imagine you are a high school teacher preparing to give a lesson on a particular subject"

	askClause        = ". I will provide you with some text content and I would like you to rewrite the content you are provided with in language that is appropriate for a {} grade student "
	curriculumClause = ". The new content should be adapted to {} standards "
	lengthClause     = ". If possible, try to make your response shorter than the input prompt."
	successClause    = ". If you can do this, please start your response with " + SuccessPrefix
	failureClause    = ". If you are unable to do so, please start your response with " + FailPrefix

	defaultGrade      = "seventh"
	defaultCurriculum = "NSW Education"
)

// ErrDeclined means the oracle explicitly signaled it cannot comply.
var ErrDeclined = errors.New("oracle declined to rewrite the text")

// ErrUnexpectedFormat means the reply carried neither protocol marker.
var ErrUnexpectedFormat = errors.New("oracle reply did not follow the marker protocol")

// Template holds the operator-tunable parts of the instruction. The marker
// and length clauses are protocol-fixed and deliberately not in here.
type Template struct {
	Role              string `yaml:"role"`
	DefaultGrade      string `yaml:"default_grade"`
	DefaultCurriculum string `yaml:"default_curriculum"`
}

// DefaultTemplate returns the stock instruction template.
func DefaultTemplate() Template {
	return Template{
		Role:              defaultRole,
		DefaultGrade:      defaultGrade,
		DefaultCurriculum: defaultCurriculum,
	}
}

// Builder assembles oracle instructions from a template. Safe for
// concurrent use; the template may be swapped at runtime via SetTemplate
// (prompt-overrides hot reload).
type Builder struct {
	mu  sync.RWMutex
	tpl Template
}

// NewBuilder returns a Builder on the stock template.
func NewBuilder() *Builder {
	return &Builder{tpl: DefaultTemplate()}
}

// SetTemplate replaces the instruction template. Empty fields fall back to
// the stock values, so a partial overrides file is fine.
func (b *Builder) SetTemplate(tpl Template) {
	stock := DefaultTemplate()
	if tpl.Role == "" {
		tpl.Role = stock.Role
	}
	if tpl.DefaultGrade == "" {
		tpl.DefaultGrade = stock.DefaultGrade
	}
	if tpl.DefaultCurriculum == "" {
		tpl.DefaultCurriculum = stock.DefaultCurriculum
	}
	b.mu.Lock()
	b.tpl = tpl
	b.mu.Unlock()
}

// Template returns the current instruction template.
func (b *Builder) Template() Template {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tpl
}

// Build assembles the system instruction for one rewrite request. Empty
// grade and curriculum fall back to the template defaults; extraPrompt is
// appended verbatim.
func (b *Builder) Build(grade, curriculum, extraPrompt string) string {
	tpl := b.Template()
	if grade == "" {
		grade = tpl.DefaultGrade
	}
	if curriculum == "" {
		curriculum = tpl.DefaultCurriculum
	}
	var sb strings.Builder
	sb.WriteString(tpl.Role)
	sb.WriteString(strings.Replace(askClause, "{}", grade, 1))
	sb.WriteString(strings.Replace(curriculumClause, "{}", curriculum, 1))
	sb.WriteString(lengthClause)
	sb.WriteString(extraPrompt)
	sb.WriteString(successClause)
	sb.WriteString(failureClause)
	return sb.String()
}

// Parse validates an oracle reply against the marker protocol.
//
// Success marker present: returns the trimmed text after the marker.
// Failure marker present: ErrDeclined.
// Neither: ErrUnexpectedFormat.
// In both failure cases the returned text is empty and must not be written
// into the document.
func Parse(reply string) (string, error) {
	if idx := strings.Index(reply, SuccessPrefix); idx != -1 {
		return strings.TrimSpace(reply[idx+len(SuccessPrefix):]), nil
	}
	if strings.Contains(reply, FailPrefix) {
		return "", ErrDeclined
	}
	return "", ErrUnexpectedFormat
}

// ContainsMarker reports whether text still carries either protocol
// marker. Validated output must never contain one; the session client uses
// this as a belt-and-braces check on backend responses.
func ContainsMarker(text string) bool {
	return strings.Contains(text, SuccessPrefix) || strings.Contains(text, FailPrefix)
}
