package models

// TaskStatus is the kanban state of a task
type TaskStatus string

const (
	TaskToDo       TaskStatus = "TO DO"
	TaskInProgress TaskStatus = "IN PROGRESS"
	TaskComplete   TaskStatus = "COMPLETE"
)

// TaskStatuses lists the board columns left to right
var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskComplete}

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	return s == TaskToDo || s == TaskInProgress || s == TaskComplete
}

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists priorities from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task is the unit of work in an order's Time & Action schedule
type Task struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Status           TaskStatus `json:"status"`
	Priority         Priority   `json:"priority"`
	Responsible      string     `json:"responsible"`
	PlannedStartDate Date       `json:"plannedStartDate,omitempty"`
	PlannedEndDate   Date       `json:"plannedEndDate,omitempty"`
	ActualStartDate  Date       `json:"actualStartDate,omitempty"`
	ActualEndDate    Date       `json:"actualEndDate,omitempty"`
	Progress         int        `json:"progress"`
	Notes            string     `json:"notes,omitempty"`
	ProductID        string     `json:"productId,omitempty"`
	Quantity         int        `json:"quantity,omitempty"`
}

// HasSchedule reports whether both planned dates are usable
func (t Task) HasSchedule() bool {
	return t.PlannedStartDate.Valid() && t.PlannedEndDate.Valid()
}

// CloneTasks copies a task slice. nil stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
