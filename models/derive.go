package models

import "math"

// DueSoonDays is the look-ahead window for due-soon tasks
const DueSoonDays = 3

// IsOverdue reports whether an incomplete task's planned end is before today
func (t Task) IsOverdue(today Date) bool {
	if t.Status == TaskComplete {
		return false
	}
	return t.PlannedEndDate.Before(today)
}

// IsDueSoon reports whether an incomplete task ends within the next DueSoonDays days, today included
func (t Task) IsDueSoon(today Date) bool {
	if t.Status == TaskComplete || !t.PlannedEndDate.Valid() || !today.Valid() {
		return false
	}
	return !t.PlannedEndDate.Before(today) && !t.PlannedEndDate.After(today.AddDays(DueSoonDays))
}

// IsAtRisk reports whether an incomplete task is overdue or due soon
func (t Task) IsAtRisk(today Date) bool {
	return t.IsOverdue(today) || t.IsDueSoon(today)
}

// DelayDays returns the schedule slip of a task.
// Completed tasks compare actual end to planned end (zero or negative means on time).
// Incomplete overdue tasks compare today to planned end.
// ok is false when no delay can be computed.
func (t Task) DelayDays(today Date) (days int, ok bool) {
	if t.Status == TaskComplete {
		return DaysBetween(t.PlannedEndDate, t.ActualEndDate)
	}
	if t.IsOverdue(today) {
		return DaysBetween(t.PlannedEndDate, today)
	}
	return 0, false
}

// CompletionPercent is the rounded share of completed tasks, 0 for an empty list
func CompletionPercent(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskComplete {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(tasks))))
}

// CountByStatus counts tasks per status
func CountByStatus(tasks []Task) map[TaskStatus]int {
	counts := map[TaskStatus]int{TaskToDo: 0, TaskInProgress: 0, TaskComplete: 0}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// OwningProductID returns the task's product id when it matches an existing product, "" for unassigned
func OwningProductID(t Task, products []Product) string {
	if t.ProductID != "" && HasProduct(products, t.ProductID) {
		return t.ProductID
	}
	return ""
}
