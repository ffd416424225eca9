package ui

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/davidshq/clickup-utils-sub000/pkg/clickup"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderTeams renders workspaces as an ASCII table
func RenderTeams(teams []clickup.Team) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Members"})

	for _, team := range teams {
		t.AppendRow(table.Row{team.ID, team.Name, len(team.Members)})
	}

	return t.Render()
}

// RenderSpaces renders spaces as an ASCII table
func RenderSpaces(spaces []clickup.Space) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Private", "Archived"})

	for _, space := range spaces {
		t.AppendRow(table.Row{space.ID, space.Name, space.Private, space.Archived})
	}

	return t.Render()
}

// RenderFolders renders folders as an ASCII table
func RenderFolders(folders []clickup.Folder) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Lists"})

	for _, folder := range folders {
		t.AppendRow(table.Row{folder.ID, folder.Name, len(folder.Lists)})
	}

	return t.Render()
}

// RenderLists renders lists as an ASCII table
func RenderLists(lists []clickup.List) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Tasks"})

	var total int
	for _, list := range lists {
		t.AppendRow(table.Row{list.ID, list.Name, list.TaskCount})
		total += list.TaskCount
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d lists", len(lists)), total})

	return t.Render()
}

// RenderTasks renders tasks as an ASCII table
func RenderTasks(tasks []clickup.Task) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Assignees", "Due"})

	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.ID,
			truncate(task.Name, 50),
			task.Status.Status,
			assigneeNames(task.Assignees),
			task.DueDate,
		})
	}

	return t.Render()
}

// RenderTaskDetail renders a single task as a label/value table
func RenderTaskDetail(task *clickup.Task) string {
	if task == nil {
		return ""
	}

	t := newTable()
	t.AppendRow(table.Row{"ID", task.ID})
	t.AppendRow(table.Row{"Name", task.Name})
	t.AppendRow(table.Row{"Status", task.Status.Status})
	if task.Priority != nil {
		t.AppendRow(table.Row{"Priority", task.Priority.Priority})
	}
	t.AppendRow(table.Row{"Assignees", assigneeNames(task.Assignees)})
	if task.DueDate != "" {
		t.AppendRow(table.Row{"Due", task.DueDate})
	}
	if task.URL != "" {
		t.AppendRow(table.Row{"URL", task.URL})
	}

	return t.Render()
}

func assigneeNames(users []clickup.User) string {
	if len(users) == 0 {
		return "-"
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
