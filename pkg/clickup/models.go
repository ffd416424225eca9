package clickup

// The structs below carry only the fields the CLI renders; the ClickUp
// API returns far more, and the rest is intentionally dropped at decode
// time.

// Team is a ClickUp workspace
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// Member is a workspace member entry
type Member struct {
	User User `json:"user"`
}

// User identifies a ClickUp user
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Space is a ClickUp space within a workspace
type Space struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	Archived bool   `json:"archived"`
}

// Folder groups lists within a space
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Lists    []List `json:"lists,omitempty"`
}

// List is a ClickUp task list
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"task_count"`
	Archived  bool   `json:"archived"`
}

// Task is a ClickUp task
type Task struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    TaskStatus    `json:"status"`
	Priority  *TaskPriority `json:"priority,omitempty"`
	Assignees []User        `json:"assignees,omitempty"`
	// DueDate is milliseconds since epoch, transported as a string
	DueDate string `json:"due_date,omitempty"`
	URL     string `json:"url,omitempty"`
}

// TaskStatus is the current status of a task
type TaskStatus struct {
	Status string `json:"status"`
	Color  string `json:"color,omitempty"`
}

// TaskPriority is the priority label of a task
type TaskPriority struct {
	Priority string `json:"priority"`
	Color    string `json:"color,omitempty"`
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	DueDate     int64  `json:"due_date,omitempty"`
	Assignees   []int  `json:"assignees,omitempty"`
}

// UpdateTaskRequest is the payload for updating a task
type UpdateTaskRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	DueDate     int64  `json:"due_date,omitempty"`
}

// Response envelopes

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type spacesResponse struct {
	Spaces []Space `json:"spaces"`
}

type foldersResponse struct {
	Folders []Folder `json:"folders"`
}

type listsResponse struct {
	Lists []List `json:"lists"`
}

type tasksResponse struct {
	Tasks []Task `json:"tasks"`
}
