package tasks

import (
	"testing"
	"time"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
}

func newTestEngine() *Engine {
	return NewEngine(WithClock(fixedClock()))
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1, Name: "Order Confirmation", Status: models.TaskComplete, Progress: 100, PlannedStartDate: "2024-06-01", PlannedEndDate: "2024-06-03"},
		{ID: 2, Name: "Fabric Sourcing", Status: models.TaskInProgress, Progress: 40, PlannedStartDate: "2024-06-03", PlannedEndDate: "2024-06-17"},
		{ID: 3, Name: "Sewing", Status: models.TaskToDo, Progress: 0, PlannedStartDate: "2024-06-17", PlannedEndDate: "2024-07-01"},
	}
}

func TestCreateDefaults(t *testing.T) {
	e := newTestEngine()
	list, task := e.Create(nil, Draft{Name: "Fabric Sourcing"})

	require.Len(t, list, 1)
	assert.Equal(t, task, list[0])
	assert.Equal(t, models.TaskToDo, task.Status)
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.Date("2024-06-15"), task.PlannedStartDate)
	assert.Equal(t, models.Date("2024-06-22"), task.PlannedEndDate)
	assert.Equal(t, "Sourcing Team", task.Responsible, "template names auto-fill the responsible role")
	assert.NotZero(t, task.ID)
}

func TestCreateInColumn(t *testing.T) {
	e := newTestEngine()

	_, inProgress := e.Create(nil, Draft{Name: "Cutting", Status: models.TaskInProgress})
	assert.Equal(t, models.TaskInProgress, inProgress.Status)
	assert.Equal(t, MinInProgress, inProgress.Progress)
	assert.Equal(t, models.Date("2024-06-15"), inProgress.ActualStartDate)

	_, done := e.Create(nil, Draft{Name: "Cutting", Status: models.TaskComplete})
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, models.Date("2024-06-15"), done.ActualEndDate)
}

func TestCreateKeepsEndAfterStart(t *testing.T) {
	e := newTestEngine()
	_, task := e.Create(nil, Draft{Name: "x", PlannedStartDate: "2024-07-10", PlannedEndDate: "2024-07-01"})
	assert.Equal(t, task.PlannedStartDate, task.PlannedEndDate)
}

func TestCreateDoesNotMutateInput(t *testing.T) {
	e := newTestEngine()
	orig := sampleTasks()
	input := sampleTasks()[:2]
	out, _ := e.Create(input, Draft{Name: "x"})
	assert.Len(t, out, 3)
	assert.Equal(t, orig[:2], input)
}

func TestRapidCreateGivesUniqueIDs(t *testing.T) {
	e := newTestEngine()
	var list []models.Task
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		var task models.Task
		list, task = e.Create(list, Draft{Name: "batch"})
		assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
		seen[task.ID] = true
	}
}

func TestUpdateUnknownTask(t *testing.T) {
	e := newTestEngine()
	_, err := e.Update(sampleTasks(), 99, ProgressPatch(50))
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUnknownEnumsAreRejected(t *testing.T) {
	e := newTestEngine()

	done := models.TaskStatus("DONE")
	_, err := e.Update(sampleTasks(), 1, Patch{Status: &done})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	critical := models.Priority("Critical")
	_, err = e.Update(sampleTasks(), 1, Patch{Priority: &critical})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	assert.ErrorIs(t, Draft{Name: "x", Status: "BLOCKED"}.Validate(), ErrInvalidStatus)
	assert.ErrorIs(t, Draft{Name: "x", Priority: "Critical"}.Validate(), ErrInvalidPriority)
	assert.NoError(t, Draft{Name: "x"}.Validate())

	b := NewBulkEditor(e)
	require.NoError(t, b.Enter(sampleTasks()))
	_, err = b.Add(Draft{Name: "x", Status: "BLOCKED"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Len(t, b.Working(), 3)

	_, err = e.DropInColumn(sampleTasks(), 1, "BLOCKED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDelete(t *testing.T) {
	list, err := Delete(sampleTasks(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	_, err = Delete(list, 2)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReorder(t *testing.T) {
	list, err := Reorder(sampleTasks(), 2, Up)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(list))

	list, err = Reorder(list, 2, Up)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(list), "moving the first task up is a no-op")

	list, err = Reorder(list, 3, Down)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(list), "moving the last task down is a no-op")

	_, err = Reorder(list, 1, Direction("sideways"))
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestDropInColumn(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		taskID   int64
		column   models.TaskStatus
		progress int
	}{
		{"in progress to complete", 2, models.TaskComplete, 100},
		{"to do to complete", 3, models.TaskComplete, 100},
		{"complete to in progress resets to 50", 1, models.TaskInProgress, 50},
		{"to do to in progress starts at 10", 3, models.TaskInProgress, 10},
		{"in progress keeps its progress", 2, models.TaskInProgress, 40},
		{"complete to to do", 1, models.TaskToDo, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := e.DropInColumn(sampleTasks(), tt.taskID, tt.column)
			require.NoError(t, err)
			task := list[indexOf(list, tt.taskID)]
			assert.Equal(t, tt.column, task.Status)
			assert.Equal(t, tt.progress, task.Progress)
			assert.True(t, Consistent(task))
		})
	}

	_, err := e.DropInColumn(sampleTasks(), 1, models.TaskStatus("BLOCKED"))
	assert.Error(t, err)
}

func TestDefaultProductID(t *testing.T) {
	products := []models.Product{{ID: "p1"}, {ID: "p2"}}
	assert.Equal(t, "p2", DefaultProductID("p2", products))
	assert.Equal(t, "p1", DefaultProductID("", products))
	assert.Equal(t, "p1", DefaultProductID(UnassignedFilter, products))
	assert.Equal(t, "p1", DefaultProductID("gone", products))
	assert.Equal(t, "", DefaultProductID("", nil))
}

func TestSeedTasks(t *testing.T) {
	e := newTestEngine()
	seeds := e.SeedTasks("p1")

	require.Len(t, seeds, 2)
	assert.Equal(t, "Order Confirmation", seeds[0].Name)
	assert.Equal(t, "Fabric Sourcing", seeds[1].Name)
	for _, s := range seeds {
		assert.Equal(t, models.TaskToDo, s.Status)
		assert.Equal(t, 0, s.Progress)
		assert.Equal(t, "p1", s.ProductID)
	}
	assert.Equal(t, seeds[0].PlannedEndDate, seeds[1].PlannedStartDate)
	assert.NotEqual(t, seeds[0].ID, seeds[1].ID)
}

func ids(list []models.Task) []int64 {
	out := make([]int64, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}
