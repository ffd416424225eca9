package clickup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the ClickUp v2 API root
const DefaultBaseURL = "https://api.clickup.com/api/v2"

// GetAuthorizedTeams returns the workspaces the token has access to
func (c *Client) GetAuthorizedTeams(ctx context.Context) ([]Team, error) {
	var resp teamsResponse
	if err := c.do(ctx, http.MethodGet, "/team", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

// GetSpaces returns the spaces in a workspace
func (c *Client) GetSpaces(ctx context.Context, teamID string) ([]Space, error) {
	path := fmt.Sprintf("/team/%s/space", url.PathEscape(teamID))

	var resp spacesResponse
	if err := c.do(ctx, http.MethodGet, path, archivedQuery(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spaces, nil
}

// GetFolders returns the folders in a space
func (c *Client) GetFolders(ctx context.Context, spaceID string) ([]Folder, error) {
	path := fmt.Sprintf("/space/%s/folder", url.PathEscape(spaceID))

	var resp foldersResponse
	if err := c.do(ctx, http.MethodGet, path, archivedQuery(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// GetLists returns the lists in a folder
func (c *Client) GetLists(ctx context.Context, folderID string) ([]List, error) {
	path := fmt.Sprintf("/folder/%s/list", url.PathEscape(folderID))

	var resp listsResponse
	if err := c.do(ctx, http.MethodGet, path, archivedQuery(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// GetFolderlessLists returns the lists that live directly in a space
func (c *Client) GetFolderlessLists(ctx context.Context, spaceID string) ([]List, error) {
	path := fmt.Sprintf("/space/%s/list", url.PathEscape(spaceID))

	var resp listsResponse
	if err := c.do(ctx, http.MethodGet, path, archivedQuery(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// GetTasks returns the tasks in a list
func (c *Client) GetTasks(ctx context.Context, listID string) ([]Task, error) {
	path := fmt.Sprintf("/list/%s/task", url.PathEscape(listID))

	var resp tasksResponse
	if err := c.do(ctx, http.MethodGet, path, archivedQuery(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTask returns a single task by id
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	path := fmt.Sprintf("/task/%s", url.PathEscape(taskID))

	var task Task
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task in a list
func (c *Client) CreateTask(ctx context.Context, listID string, req *CreateTaskRequest) (*Task, error) {
	path := fmt.Sprintf("/list/%s/task", url.PathEscape(listID))

	var task Task
	if err := c.do(ctx, http.MethodPost, path, nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates fields on an existing task
func (c *Client) UpdateTask(ctx context.Context, taskID string, req *UpdateTaskRequest) (*Task, error) {
	path := fmt.Sprintf("/task/%s", url.PathEscape(taskID))

	var task Task
	if err := c.do(ctx, http.MethodPut, path, nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	path := fmt.Sprintf("/task/%s", url.PathEscape(taskID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func archivedQuery() url.Values {
	return url.Values{"archived": {"false"}}
}
