// Package employees is a read model over the externally managed HR employee
// records. The timeclock never mutates them.
package employees

// Employee is the HR identity a timesheet belongs to.
type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	EmployeeNumber string
	IsActive       bool
}

// FullName joins the name parts for display.
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
