// Package projects exposes the read-only project and timesheet-task
// reference data that punches are tagged with. Both are owned by external
// domains (pm and hr schemas).
package projects

// Project is a lightweight reference row from pm.projects.
type Project struct {
	ID     int64
	Number string
	Name   string
	Status string
}

// Label formats a project the way the timeclock UI shows it.
func (p Project) Label() string {
	if p.Number == "" {
		return p.Name
	}
	return p.Number + " - " + p.Name
}

// Task is a timesheet task row from hr.timesheet_tasks.
type Task struct {
	ID   int64
	Name string
}

// Statuses a project can punch against.
var activeStatuses = []string{"Design", "Queued", "WIP", "Built"}
