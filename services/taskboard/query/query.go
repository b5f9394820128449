// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package query implements filtering, search, and ordering over the task
// collection. Everything here is pure: functions take a slice and return
// a new slice, so callers can compose them in any order.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianTasks/pkg/validation"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
)

// Status selects the completion-state tab.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Filter bundles the list-endpoint parameters.
type Filter struct {
	// Term is the free-text title search. Empty means no search.
	Term string

	// Status is the completion tab. Empty or "all" means no filter.
	Status Status
}

// Apply runs the full list pipeline: status filter, then title search,
// then relevance ordering when a term is active.
func Apply(tasks []datatypes.Task, f Filter) []datatypes.Task {
	result := FilterByStatus(tasks, f.Status)
	result = Search(result, f.Term)
	return SortByRelevance(result, f.Term)
}

// Search returns the tasks whose title contains term, case-insensitively.
// An empty term returns the input unchanged (identity law).
func Search(tasks []datatypes.Task, term string) []datatypes.Task {
	if term == "" {
		return tasks
	}

	needle := strings.ToLower(term)
	matched := make([]datatypes.Task, 0, len(tasks))
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) {
			matched = append(matched, task)
		}
	}
	return matched
}

// FilterByStatus returns the tasks matching the completion tab.
func FilterByStatus(tasks []datatypes.Task, status Status) []datatypes.Task {
	switch status {
	case StatusActive:
		return filter(tasks, func(t datatypes.Task) bool { return !t.Completed })
	case StatusCompleted:
		return filter(tasks, func(t datatypes.Task) bool { return t.Completed })
	default:
		return tasks
	}
}

// SortByRelevance orders tasks for an active search term: titles that
// contain the term rank before those that don't, and among matches the
// earlier match position wins. Non-matching tasks keep their relative
// order after all matches. This is a stable partial sort, not a
// full-text relevance score. An empty term returns the input unchanged.
func SortByRelevance(tasks []datatypes.Task, term string) []datatypes.Task {
	if term == "" {
		return tasks
	}

	needle := strings.ToLower(term)
	sorted := make([]datatypes.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		posI := strings.Index(strings.ToLower(sorted[i].Title), needle)
		posJ := strings.Index(strings.ToLower(sorted[j].Title), needle)

		if posI >= 0 && posJ >= 0 {
			return posI < posJ
		}
		return posI >= 0 && posJ < 0
	})
	return sorted
}

// Urgency classifies how pressing a task's due date is. It is a
// presentation rule and never persisted.
type Urgency string

const (
	// UrgencyNone applies to completed tasks and tasks without a due date.
	UrgencyNone Urgency = ""

	// UrgencyUrgent applies to overdue tasks and tasks due within one day.
	UrgencyUrgent Urgency = "urgent"

	// UrgencySoon applies to tasks due within seven days.
	UrgencySoon Urgency = "soon"

	// UrgencyNormal applies to tasks due later than seven days out.
	UrgencyNormal Urgency = "normal"
)

// ClassifyDueDate returns the urgency of a task as of now. Completed
// tasks are never flagged regardless of date, and a due date that fails
// to parse is treated as absent.
func ClassifyDueDate(task datatypes.Task, now time.Time) Urgency {
	if task.Completed || task.DueDate == nil || *task.DueDate == "" {
		return UrgencyNone
	}

	due, err := validation.ParseDueDate(*task.DueDate)
	if err != nil {
		return UrgencyNone
	}

	// Due dates parse as UTC midnights, so the day boundaries must be
	// UTC too; the server's local zone must not shift the thresholds.
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 7)

	switch {
	case !due.After(tomorrow):
		// Overdue or due within one day.
		return UrgencyUrgent
	case !due.After(nextWeek):
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}

func filter(tasks []datatypes.Task, keep func(datatypes.Task) bool) []datatypes.Task {
	result := make([]datatypes.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			result = append(result, task)
		}
	}
	return result
}
