// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianTasks/pkg/validation"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/storage"
)

const cliVersion = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "taskboard",
		Short: "A CLI to manage a TaskBoard deployment",
		Long: `Taskboard is a tool for operating the TaskBoard service:
				seeding and checking its data file, and querying a running instance.`,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Prints the CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("taskboard", cliVersion)
		},
	}

	forceSeed bool

	seedCmd = &cobra.Command{
		Use:   "seed [file]",
		Short: "Writes a fresh seed document to the data file",
		Long:  `Creates the data file with the default demo users and an empty task list. Refuses to overwrite an existing file unless --force is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeedCommand,
	}

	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Validates the data file and reports its contents",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheckCommand,
	}

	tasksCmd = &cobra.Command{
		Use:   "tasks",
		Short: "Queries tasks from a running TaskBoard instance",
	}

	tasksListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists tasks from the server",
		RunE:  runTasksListCommand,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Checks whether the server is up",
		RunE:  runHealthCommand,
	}
)

func init() {
	seedCmd.Flags().BoolVar(&forceSeed, "force", false, "overwrite an existing data file")

	tasksCmd.AddCommand(tasksListCmd)
	rootCmd.AddCommand(versionCmd, seedCmd, checkCmd, tasksCmd, healthCmd)
}

func dataFileArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.Data.File
}

func runSeedCommand(cmd *cobra.Command, args []string) error {
	path := dataFileArg(args)

	if _, err := os.Stat(path); err == nil && !forceSeed {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if forceSeed {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	store, err := storage.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Load seeds the file when it does not exist yet.
	doc, err := store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %s with %d users\n", path, len(doc.Users))
	return nil
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	path := dataFileArg(args)

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc datatypes.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s is not a valid task document: %w", path, err)
	}

	problems := 0
	seen := make(map[string]bool, len(doc.Tasks))
	for _, task := range doc.Tasks {
		if seen[task.ID] {
			fmt.Printf("PROBLEM: duplicate task id %s\n", task.ID)
			problems++
		}
		seen[task.ID] = true
		if task.Title == "" {
			fmt.Printf("PROBLEM: task %s has an empty title\n", task.ID)
			problems++
		}
		if task.DueDate != nil {
			if _, err := validation.ParseDueDate(*task.DueDate); err != nil {
				fmt.Printf("PROBLEM: task %s has unparseable due date %q\n", task.ID, *task.DueDate)
				problems++
			}
		}
	}

	fmt.Printf("%s: %d tasks, %d users, %d problems\n",
		path, len(doc.Tasks), len(doc.Users), problems)
	if problems > 0 {
		return fmt.Errorf("found %d problems", problems)
	}
	return nil
}

func runTasksListCommand(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(config.Server.URL + "/api/tasks")
	if err != nil {
		return fmt.Errorf("could not reach the server at %s: %w", config.Server.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var listed []datatypes.Task
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tCOMPLETED\tDUE")
	for _, task := range listed {
		due := ""
		if task.DueDate != nil {
			due = *task.DueDate
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
			task.ID, task.Title, task.Priority, task.Completed, due)
	}
	return w.Flush()
}

func runHealthCommand(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(config.Server.URL + "/health")
	if err != nil {
		return fmt.Errorf("server is unreachable at %s: %w", config.Server.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server is unhealthy, status %d", resp.StatusCode)
	}
	fmt.Println("Server is healthy.")
	return nil
}
