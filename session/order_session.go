package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/tasks"
)

var (
	ErrNoSelection   = errors.New("no order selected")
	ErrUnknownStatus = errors.New("unknown order status")
	ErrNoStorage     = errors.New("document storage is not configured")
	ErrNoDocument    = errors.New("document not found")
)

// Deps are the collaborators of an OrderSession
type Deps struct {
	Engine    *tasks.Engine
	Orders    services.OrderService
	Documents services.DocumentService
	Book      *OrderBook
	Sink      NotificationSink
	Now       func() time.Time
}

// OrderSession is the edit buffer of one selected order. Edits are applied
// to a private deep copy; HasChanges compares it with the last persisted
// snapshot.
type OrderSession struct {
	deps   Deps
	ledger *tasks.Ledger

	selected bool
	buffer   models.Order
	baseline models.Order
	original string
	filter   string
	expanded int64
}

// NewOrderSession creates a session with nothing selected
func NewOrderSession(deps Deps) *OrderSession {
	if deps.Engine == nil {
		deps.Engine = tasks.NewEngine()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &OrderSession{deps: deps, ledger: tasks.NewLedger()}
}

// Select discards any buffer and starts editing a copy of o
func (s *OrderSession) Select(o models.Order) {
	s.selected = true
	s.buffer = o.Clone()
	s.filter = ""
	s.expanded = 0
	s.rebase(o)
	if ids, ok := s.deps.Engine.IDs().(*tasks.MonotonicIDs); ok {
		ids.Observe(taskIDs(o.Tasks))
	}
}

// SelectByID selects an order held by the book
func (s *OrderSession) SelectByID(id string) error {
	if s.deps.Book == nil {
		return ErrNoSelection
	}
	o, ok := s.deps.Book.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrOrderNotFound, id)
	}
	s.Select(o)
	return nil
}

// Clear drops the selection and its buffer without saving
func (s *OrderSession) Clear() {
	s.selected = false
	s.buffer = models.Order{}
	s.baseline = models.Order{}
	s.original = ""
	s.filter = ""
	s.expanded = 0
}

// Selected returns a copy of the edit buffer
func (s *OrderSession) Selected() (models.Order, bool) {
	if !s.selected {
		return models.Order{}, false
	}
	return s.buffer.Clone(), true
}

// HasChanges reports whether the buffer differs from the last persisted snapshot
func (s *OrderSession) HasChanges() bool {
	return s.selected && serialize(s.buffer) != s.original
}

// SetStatus changes the order status
func (s *OrderSession) SetStatus(status models.OrderStatus) error {
	if err := s.require(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	s.buffer.Status = status
	return nil
}

// AssignFactory selects a registered factory, clearing any custom factory
func (s *OrderSession) AssignFactory(factoryID string) error {
	if err := s.require(); err != nil {
		return err
	}
	s.buffer.AssignFactory(factoryID)
	return nil
}

// AssignCustomFactory sets a free-text factory, clearing any factory reference
func (s *OrderSession) AssignCustomFactory(name, location string) error {
	if err := s.require(); err != nil {
		return err
	}
	s.buffer.AssignCustomFactory(name, location)
	return nil
}

// AddProduct appends a product. An empty id gets a fresh one.
func (s *OrderSession) AddProduct(p models.Product) (models.Product, error) {
	if err := s.require(); err != nil {
		return models.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.buffer.Products = append(s.buffer.Products, p.Clone())
	return p, nil
}

// UpdateProduct replaces the product with p.ID
func (s *OrderSession) UpdateProduct(p models.Product) error {
	if err := s.require(); err != nil {
		return err
	}
	i := s.buffer.FindProduct(p.ID)
	if i < 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	s.buffer.Products[i] = p.Clone()
	return nil
}

// RemoveProduct deletes a product. Its tasks stay, unassigned.
func (s *OrderSession) RemoveProduct(id string) error {
	if err := s.require(); err != nil {
		return err
	}
	i := s.buffer.FindProduct(id)
	if i < 0 {
		return fmt.Errorf("product %s not found", id)
	}
	s.buffer.Products = append(s.buffer.Products[:i:i], s.buffer.Products[i+1:]...)
	for j := range s.buffer.Tasks {
		if s.buffer.Tasks[j].ProductID == id {
			s.buffer.Tasks[j].ProductID = ""
		}
	}
	if s.filter == id {
		s.filter = ""
	}
	return nil
}

// SetProductFilter scopes views and new tasks to a product
func (s *OrderSession) SetProductFilter(filter string) {
	s.filter = filter
}

// ProductFilter is the active product filter
func (s *OrderSession) ProductFilter() string {
	return s.filter
}

// CreateTask adds a task to the buffer. Without a product the task goes to
// the filtered product or the first product.
func (s *OrderSession) CreateTask(d tasks.Draft) (models.Task, error) {
	if err := s.require(); err != nil {
		return models.Task{}, err
	}
	if d.ProductID == "" {
		d.ProductID = tasks.DefaultProductID(s.filter, s.buffer.Products)
	}
	list, t := s.deps.Engine.Create(s.buffer.Tasks, d)
	s.buffer.Tasks = list
	return t, nil
}

// UpdateTask patches a task in the buffer
func (s *OrderSession) UpdateTask(id int64, p tasks.Patch) error {
	return s.mutateTasks(func(list []models.Task) ([]models.Task, error) {
		return s.deps.Engine.Update(list, id, p)
	})
}

// DeleteTask removes a task and closes its detail view if it was open
func (s *OrderSession) DeleteTask(id int64) error {
	if err := s.mutateTasks(func(list []models.Task) ([]models.Task, error) {
		return tasks.Delete(list, id)
	}); err != nil {
		return err
	}
	if s.expanded == id {
		s.expanded = 0
	}
	return nil
}

// ReorderTask swaps a task with its neighbour
func (s *OrderSession) ReorderTask(id int64, dir tasks.Direction) error {
	return s.mutateTasks(func(list []models.Task) ([]models.Task, error) {
		return tasks.Reorder(list, id, dir)
	})
}

// DropTask moves a task into a board column
func (s *OrderSession) DropTask(id int64, column models.TaskStatus) error {
	return s.mutateTasks(func(list []models.Task) ([]models.Task, error) {
		return s.deps.Engine.DropInColumn(list, id, column)
	})
}

// DragTask applies a released gantt drag
func (s *OrderSession) DragTask(r tasks.DragResult) error {
	return s.mutateTasks(func(list []models.Task) ([]models.Task, error) {
		return s.deps.Engine.ApplyDrag(list, r)
	})
}

// ReplaceTasks swaps the whole task list, as a bulk edit save does
func (s *OrderSession) ReplaceTasks(list []models.Task) error {
	if err := s.require(); err != nil {
		return err
	}
	s.buffer.Tasks = models.CloneTasks(list)
	if s.buffer.Tasks == nil {
		s.buffer.Tasks = []models.Task{}
	}
	if s.expanded != 0 && s.buffer.FindTask(s.expanded) < 0 {
		s.expanded = 0
	}
	return nil
}

// ExpandTask opens a task's detail view
func (s *OrderSession) ExpandTask(id int64) error {
	if err := s.require(); err != nil {
		return err
	}
	if s.buffer.FindTask(id) < 0 {
		return fmt.Errorf("%w: %d", tasks.ErrTaskNotFound, id)
	}
	s.expanded = id
	return nil
}

// ExpandedTask is the task whose detail view is open
func (s *OrderSession) ExpandedTask() (int64, bool) {
	return s.expanded, s.expanded != 0
}

// Save persists the mutable fields of the buffer. On failure the buffer is
// left as is and stays dirty.
func (s *OrderSession) Save(ctx context.Context) error {
	if err := s.require(); err != nil {
		return err
	}
	patch := models.PatchFromOrder(s.buffer, s.deps.Now().UTC().Format(time.RFC3339))
	if err := s.deps.Orders.Update(ctx, s.buffer.ID, patch); err != nil {
		log.Printf("[ORDERS] failed to save order %s: %v", s.buffer.ID, err)
		notify(s.deps.Sink, LevelError, "Failed to save order. Your changes are kept.")
		return fmt.Errorf("failed to save order %s: %w", s.buffer.ID, err)
	}

	patch.ApplyTo(&s.buffer)
	if s.deps.Book != nil {
		s.deps.Book.Merge(s.buffer.ID, patch)
	}
	s.rebase(s.buffer)
	log.Printf("[ORDERS] saved order %s", s.buffer.ID)
	notify(s.deps.Sink, LevelSuccess, "Order saved.")
	return nil
}

// CommitTasks applies a task mutation optimistically and persists the
// resulting list right away. A failed write rolls the buffer's tasks back.
// Other unsaved edits in the buffer stay unsaved.
func (s *OrderSession) CommitTasks(ctx context.Context, mutate func([]models.Task) ([]models.Task, error)) error {
	if err := s.require(); err != nil {
		return err
	}
	next, pending, err := s.ledger.ApplyLocally(s.buffer.Tasks, mutate)
	if err != nil {
		return err
	}
	s.buffer.Tasks = next

	if err := s.deps.Orders.Update(ctx, s.buffer.ID, models.OrderPatch{Tasks: next}); err != nil {
		restored, rbErr := s.ledger.Rollback(pending, err)
		if rbErr == nil {
			s.buffer.Tasks = restored
		}
		notify(s.deps.Sink, LevelError, "Failed to update tasks. Changes were reverted.")
		return fmt.Errorf("failed to update tasks of order %s: %w", s.buffer.ID, err)
	}
	if err := s.ledger.Confirm(pending); err != nil {
		return err
	}

	tasksPatch := models.OrderPatch{Tasks: next}
	if s.deps.Book != nil {
		s.deps.Book.Merge(s.buffer.ID, tasksPatch)
	}
	base := s.baseline
	tasksPatch.ApplyTo(&base)
	s.rebase(base)
	return nil
}

// PendingTaskWrites is the number of unconfirmed task writes
func (s *OrderSession) PendingTaskWrites() int {
	return s.ledger.Pending()
}

// UploadDocument stores a file and persists the order's documents right away.
// The upload does not show up as an unsaved change.
func (s *OrderSession) UploadDocument(ctx context.Context, fileHeader *multipart.FileHeader, source models.DocumentSource) (models.Document, error) {
	if err := s.require(); err != nil {
		return models.Document{}, err
	}
	if s.deps.Documents == nil {
		return models.Document{}, ErrNoStorage
	}

	doc, err := s.deps.Documents.Upload(ctx, s.buffer.ID, fileHeader, source)
	if err != nil {
		notify(s.deps.Sink, LevelError, "Failed to upload document.")
		return models.Document{}, err
	}

	docs := append(append([]models.Document{}, s.baseline.Documents...), doc)
	if err := s.persistDocuments(ctx, docs); err != nil {
		if rmErr := s.deps.Documents.Delete(ctx, doc.Path); rmErr != nil {
			log.Printf("[DOCUMENTS] failed to clean up %s: %v", doc.Path, rmErr)
		}
		notify(s.deps.Sink, LevelError, "Failed to save document.")
		return models.Document{}, err
	}
	s.buffer.Documents = append(s.buffer.Documents, doc)
	notify(s.deps.Sink, LevelSuccess, "Document uploaded.")
	return doc, nil
}

// DocumentURL issues a signed download link for a document of the order
func (s *OrderSession) DocumentURL(ctx context.Context, path string) (string, error) {
	if err := s.require(); err != nil {
		return "", err
	}
	if s.deps.Documents == nil {
		return "", ErrNoStorage
	}
	if !hasDocument(s.buffer.Documents, path) {
		return "", fmt.Errorf("%w: %s", ErrNoDocument, path)
	}
	url, err := s.deps.Documents.SignedURL(ctx, path)
	if err != nil {
		notify(s.deps.Sink, LevelError, "Failed to open document.")
		return "", err
	}
	return url, nil
}

// DeleteDocument removes a stored file and persists the remaining documents
func (s *OrderSession) DeleteDocument(ctx context.Context, path string) error {
	if err := s.require(); err != nil {
		return err
	}
	if s.deps.Documents == nil {
		return ErrNoStorage
	}
	remaining, ok := models.RemoveDocument(s.baseline.Documents, path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDocument, path)
	}
	if err := s.deps.Documents.Delete(ctx, path); err != nil {
		notify(s.deps.Sink, LevelError, "Failed to delete document.")
		return err
	}
	if err := s.persistDocuments(ctx, remaining); err != nil {
		notify(s.deps.Sink, LevelError, "Failed to save documents.")
		return err
	}
	s.buffer.Documents, _ = models.RemoveDocument(s.buffer.Documents, path)
	notify(s.deps.Sink, LevelSuccess, "Document deleted.")
	return nil
}

func (s *OrderSession) persistDocuments(ctx context.Context, docs []models.Document) error {
	patch := models.OrderPatch{Documents: docs}
	if err := s.deps.Orders.Update(ctx, s.buffer.ID, patch); err != nil {
		return fmt.Errorf("failed to update documents of order %s: %w", s.buffer.ID, err)
	}
	if s.deps.Book != nil {
		s.deps.Book.Merge(s.buffer.ID, patch)
	}
	base := s.baseline
	patch.ApplyTo(&base)
	s.rebase(base)
	return nil
}

func (s *OrderSession) mutateTasks(fn func([]models.Task) ([]models.Task, error)) error {
	if err := s.require(); err != nil {
		return err
	}
	list, err := fn(s.buffer.Tasks)
	if err != nil {
		return err
	}
	s.buffer.Tasks = list
	return nil
}

func (s *OrderSession) require() error {
	if !s.selected {
		return ErrNoSelection
	}
	return nil
}

// rebase makes o the persisted snapshot the buffer is compared with
func (s *OrderSession) rebase(o models.Order) {
	s.baseline = o.Clone()
	s.original = serialize(s.baseline)
}

func serialize(o models.Order) string {
	b, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(b)
}

func hasDocument(docs []models.Document, path string) bool {
	for _, d := range docs {
		if d.Path == path {
			return true
		}
	}
	return false
}

func taskIDs(list []models.Task) []int64 {
	ids := make([]int64, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	return ids
}
