package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/session"
	"github.com/kendall-kelly/garment-crm/tasks"
	"github.com/kendall-kelly/garment-crm/views"
)

// MoveTaskRequest reorders a task within the list
type MoveTaskRequest struct {
	Direction tasks.Direction `json:"direction" binding:"required,oneof=up down"`
}

// DropTaskRequest drops a task into a board column
type DropTaskRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// DragTaskRequest is a released gantt bar drag in chart pixels
type DragTaskRequest struct {
	Mode     tasks.DragMode `json:"mode" binding:"required"`
	OriginX  float64        `json:"originX"`
	ReleaseX float64        `json:"releaseX"`
}

// BulkOperation is one step of a TNA bulk edit
type BulkOperation struct {
	Op        string          `json:"op" binding:"required,oneof=add update delete move"`
	ID        int64           `json:"id"`
	Draft     *tasks.Draft    `json:"draft"`
	Patch     *tasks.Patch    `json:"patch"`
	Direction tasks.Direction `json:"direction"`
}

// BulkEditRequest is applied to a working copy and saved in one write
type BulkEditRequest struct {
	Operations []BulkOperation `json:"operations" binding:"required,dive"`
}

func (op BulkOperation) validate() error {
	if op.Draft != nil {
		if err := op.Draft.Validate(); err != nil {
			return err
		}
	}
	if op.Patch != nil {
		return op.Patch.Validate()
	}
	return nil
}

var errBulkDraftRequired = errors.New("add operation needs a draft")

// taskUpdater persists a single task patch through the session
func taskUpdater(s *session.OrderSession, e *tasks.Engine) views.UpdateFunc {
	return func(ctx context.Context, taskID int64, p tasks.Patch) error {
		return s.CommitTasks(ctx, func(list []models.Task) ([]models.Task, error) {
			return e.Update(list, taskID, p)
		})
	}
}

func findTask(s *session.OrderSession, id int64) (models.Task, bool) {
	o := selected(s)
	if i := o.FindTask(id); i >= 0 {
		return o.Tasks[i], true
	}
	return models.Task{}, false
}

func respondTask(c *gin.Context, s *session.OrderSession, id int64, status int, sink *requestSink) {
	t, ok := findTask(s, id)
	if !ok {
		respondServiceError(c, fmt.Errorf("%w: %d", tasks.ErrTaskNotFound, id))
		return
	}
	respondData(c, status, t, sink)
}

// CreateTask handles POST /api/v1/orders/:id/tasks?product=
// Without a product id the task joins the filtered product or the first product.
func CreateTask(c *gin.Context) {
	var draft tasks.Draft
	if !bindJSON(c, &draft) {
		return
	}
	if draft.Name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Task name is required")
		return
	}
	if err := draft.Validate(); err != nil {
		respondServiceError(c, err)
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	_, _, e := runtimeState()
	s.SetProductFilter(c.Query("product"))
	if draft.ProductID == "" {
		draft.ProductID = tasks.DefaultProductID(s.ProductFilter(), selected(s).Products)
	}

	var created models.Task
	err := s.CommitTasks(c.Request.Context(), func(list []models.Task) ([]models.Task, error) {
		next, t := e.Create(list, draft)
		created = t
		return next, nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, created, sink)
}

// UpdateTask handles PATCH /api/v1/orders/:id/tasks/:taskId
func UpdateTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	var patch tasks.Patch
	if !bindJSON(c, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		respondServiceError(c, err)
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	_, _, e := runtimeState()

	editor := views.NewTNAEditor(e)
	if _, found := findTask(s, taskID); !found {
		respondServiceError(c, fmt.Errorf("%w: %d", tasks.ErrTaskNotFound, taskID))
		return
	}
	if err := editor.OpenTask(taskID); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := editor.SaveTask(c.Request.Context(), patch, taskUpdater(s, e)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, s, taskID, http.StatusOK, sink)
}

// DeleteTask handles DELETE /api/v1/orders/:id/tasks/:taskId
func DeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	err := s.CommitTasks(c.Request.Context(), func(list []models.Task) ([]models.Task, error) {
		return tasks.Delete(list, taskID)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, selected(s).Tasks, sink)
}

// MoveTask handles POST /api/v1/orders/:id/tasks/:taskId/move
func MoveTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req MoveTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	err := s.CommitTasks(c.Request.Context(), func(list []models.Task) ([]models.Task, error) {
		return tasks.Reorder(list, taskID, req.Direction)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, selected(s).Tasks, sink)
}

// DropTask handles POST /api/v1/orders/:id/tasks/:taskId/column - a board drop
func DropTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req DropTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown task status")
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	_, _, e := runtimeState()

	var drag views.BoardDrag
	drag.Start(taskID)
	drag.Over(req.Status)
	id, dropped := drag.Drop(req.Status)
	if !dropped {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown task status")
		return
	}
	err := s.CommitTasks(c.Request.Context(), func(list []models.Task) ([]models.Task, error) {
		return e.DropInColumn(list, id, req.Status)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, s, taskID, http.StatusOK, sink)
}

// DragTask handles POST /api/v1/orders/:id/tasks/:taskId/drag - a released gantt drag.
// A drag that rounds to zero days writes nothing.
func DragTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req DragTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	_, _, e := runtimeState()

	t, found := findTask(s, taskID)
	if !found {
		respondServiceError(c, fmt.Errorf("%w: %d", tasks.ErrTaskNotFound, taskID))
		return
	}
	gantt := views.NewGanttInteraction(taskUpdater(s, e))
	if err := gantt.PointerDown(t, req.Mode, req.OriginX); err != nil {
		respondServiceError(c, err)
		return
	}
	res, changed, err := gantt.PointerUp(c.Request.Context(), req.ReleaseX)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	updated, _ := findTask(s, taskID)
	respondData(c, http.StatusOK, gin.H{
		"changed": changed,
		"days":    res.Days,
		"task":    updated,
	}, sink)
}

// BulkEditTasks handles PUT /api/v1/orders/:id/tasks - a TNA bulk edit.
// Operations run against a working copy; the result is saved in one write or not at all.
func BulkEditTasks(c *gin.Context) {
	var req BulkEditRequest
	if !bindJSON(c, &req) {
		return
	}
	for _, op := range req.Operations {
		if err := op.validate(); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	_, _, e := runtimeState()

	defaultProduct := tasks.DefaultProductID(s.ProductFilter(), selected(s).Products)
	editor := views.NewTNAEditor(e)
	if err := editor.EnterBulk(selected(s).Tasks); err != nil {
		respondServiceError(c, err)
		return
	}
	for _, op := range req.Operations {
		if err := applyBulkOperation(editor.Bulk(), op, defaultProduct); err != nil {
			editor.CancelBulk()
			respondServiceError(c, err)
			return
		}
	}

	err := editor.SaveBulk(c.Request.Context(), func(ctx context.Context, working []models.Task) error {
		return s.CommitTasks(ctx, func([]models.Task) ([]models.Task, error) {
			return working, nil
		})
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, selected(s).Tasks, sink)
}

func applyBulkOperation(b *tasks.BulkEditor, op BulkOperation, defaultProduct string) error {
	switch op.Op {
	case "add":
		if op.Draft == nil {
			return &session.ValidationError{Code: "VALIDATION_ERROR", Message: errBulkDraftRequired.Error()}
		}
		draft := *op.Draft
		if draft.ProductID == "" {
			draft.ProductID = defaultProduct
		}
		_, err := b.Add(draft)
		return err
	case "update":
		if op.Patch == nil {
			return nil
		}
		return b.Update(op.ID, *op.Patch)
	case "delete":
		return b.Delete(op.ID)
	case "move":
		return b.Reorder(op.ID, op.Direction)
	}
	return &session.ValidationError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf("unknown operation %q", op.Op)}
}
