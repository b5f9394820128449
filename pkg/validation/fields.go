// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for user-supplied task fields.
//
// This package contains the write-path checks applied before a task is
// created or updated. The error strings are part of the HTTP contract:
// clients display them verbatim, so they must not change between releases.
package validation

import (
	"errors"
	"strings"
	"time"
)

// MaxDueYear is the latest calendar year accepted for a task due date.
// Fixed policy, not configurable.
const MaxDueYear = 2025

// dueDateLayouts are the wire formats accepted for due dates. The frontend
// date picker sends plain dates; API clients may send full timestamps.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

var (
	// ErrTitleRequired indicates a create request with an empty title.
	ErrTitleRequired = errors.New("Title is required")

	// ErrDueDateTooFar indicates a due date past the year cutoff.
	ErrDueDateTooFar = errors.New("Please enter a closer date (year 2025 or earlier).")

	// ErrDueDateFormat indicates a due date that could not be parsed.
	ErrDueDateFormat = errors.New("Invalid date format.")

	// ErrBadPriority indicates a priority outside low/medium/high.
	ErrBadPriority = errors.New("Priority must be one of: low, medium, high")
)

// ValidateTitle checks that a task title is non-empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ValidateDueDate validates a due date string against the year cutoff.
//
// An empty string is valid: due dates are optional, and clearing one is a
// legitimate update. A parseable date with a year past MaxDueYear returns
// ErrDueDateTooFar; anything unparseable returns ErrDueDateFormat.
//
// Example:
//
//	if err := validation.ValidateDueDate(req.DueDate); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateDueDate(dateString string) error {
	if dateString == "" {
		return nil
	}

	t, err := ParseDueDate(dateString)
	if err != nil {
		return ErrDueDateFormat
	}
	if t.Year() > MaxDueYear {
		return ErrDueDateTooFar
	}
	return nil
}

// ParseDueDate parses a due date using the accepted wire formats.
func ParseDueDate(dateString string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, dateString)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// SanitizePriority normalizes and validates a priority value.
// Returns "medium" for empty input, the lowercase priority if valid,
// or ErrBadPriority otherwise.
func SanitizePriority(priority string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(priority))
	if normalized == "" {
		return "medium", nil
	}
	switch normalized {
	case "low", "medium", "high":
		return normalized, nil
	}
	return "", ErrBadPriority
}
