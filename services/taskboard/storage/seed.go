// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
)

//go:embed seed_users.yaml
var seedUsersYAML []byte

type seedFile struct {
	Users []datatypes.User `yaml:"users"`
}

// SeedDocument returns the document written on first boot: an empty task
// list and the fixed user roster from the embedded seed file. Users are
// never created or modified through the API afterwards.
func SeedDocument() *datatypes.Document {
	users, err := parseSeedUsers(seedUsersYAML)
	if err != nil {
		// The seed is embedded at build time; a parse failure is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded seed_users.yaml is invalid: %v", err))
	}
	return &datatypes.Document{
		Tasks: []datatypes.Task{},
		Users: users,
	}
}

func parseSeedUsers(data []byte) ([]datatypes.User, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed users: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("seed contains no users")
	}
	return f.Users, nil
}
