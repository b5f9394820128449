// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config carries the CLI's connection and data settings, loaded from
// config.yaml when one is present next to the binary.
type Config struct {
	Server struct {
		URL string `yaml:"url"`
	} `yaml:"server"`
	Data struct {
		File string `yaml:"file"`
	} `yaml:"data"`
}

var config Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		config.Server.URL = "http://localhost:5000"
		config.Data.File = "tasks.json"

		yamlFile, err := os.ReadFile("config.yaml")
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		if err != nil {
			log.Fatalf("Error reading config.yaml: %v", err)
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}
}
