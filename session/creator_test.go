package session

import (
	"context"
	"testing"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func validInput() NewOrderInput {
	return NewOrderInput{
		ClientID:  "cl-1",
		Customer:  "Acme Apparel",
		Products:  []ProductInput{{Name: "Polo Shirts", Quantity: intPtr(1200)}},
		FactoryID: "fac-1",
	}
}

func TestNewOrderInputValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in *NewOrderInput)
		wantCode string
	}{
		{name: "valid", mutate: func(in *NewOrderInput) {}},
		{name: "custom factory", mutate: func(in *NewOrderInput) {
			in.FactoryID = ""
			in.CustomFactory = &models.CustomFactory{Name: "Sunrise Knits"}
		}},
		{name: "missing client", mutate: func(in *NewOrderInput) { in.ClientID = "  " }, wantCode: "MISSING_CLIENT"},
		{name: "no products", mutate: func(in *NewOrderInput) { in.Products = nil }, wantCode: "MISSING_PRODUCTS"},
		{name: "only blank products", mutate: func(in *NewOrderInput) {
			in.Products = []ProductInput{{Name: " "}}
		}, wantCode: "MISSING_PRODUCTS"},
		{name: "negative quantity", mutate: func(in *NewOrderInput) {
			in.Products[0].Quantity = intPtr(-1)
		}, wantCode: "INVALID_QUANTITY"},
		{name: "no factory", mutate: func(in *NewOrderInput) { in.FactoryID = "" }, wantCode: "MISSING_FACTORY"},
		{name: "blank custom factory", mutate: func(in *NewOrderInput) {
			in.FactoryID = ""
			in.CustomFactory = &models.CustomFactory{Name: " "}
		}, wantCode: "MISSING_FACTORY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCode, verr.Code)
		})
	}
}

func TestBuildOrder(t *testing.T) {
	in := validInput()
	in.Products = append(in.Products, ProductInput{Name: ""}, ProductInput{Name: "Tees", Category: "Knits"})

	o, err := BuildOrder(newTestEngine(), in, fixedNow())
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "2024-06-15T09:00:00Z", o.CreatedAt)
	require.Len(t, o.Products, 2, "blank product rows are dropped")
	assert.Equal(t, "2 Items Order", o.Product)
	assert.NotEqual(t, o.Products[0].ID, o.Products[1].ID)
	assert.Equal(t, "fac-1", o.FactoryID)
	assert.Nil(t, o.CustomFactory)

	require.Len(t, o.Tasks, 2)
	for _, task := range o.Tasks {
		assert.Equal(t, models.TaskToDo, task.Status)
		assert.Equal(t, o.Products[0].ID, task.ProductID)
	}
	assert.Equal(t, models.Date("2024-06-15"), o.Tasks[0].PlannedStartDate)
	assert.Equal(t, o.Tasks[0].PlannedEndDate, o.Tasks[1].PlannedStartDate)
}

func TestOrderCreatorPersistsAndAddsToBook(t *testing.T) {
	ctx := context.Background()
	orders, _, _ := newOrderStore(t)
	sink := NewMockSink()
	book := NewOrderBook(orders, NewMemoryCache(), sink, fastOptions())
	_, err := book.Load(ctx, "cl-1")
	require.NoError(t, err)

	creator := NewOrderCreator(Deps{Engine: newTestEngine(), Orders: orders, Book: book, Sink: sink, Now: fixedNow})
	created, err := creator.Create(ctx, validInput())
	require.NoError(t, err)

	raw, err := orders.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Polo Shirts", raw["product_name"])
	assert.Equal(t, "Pending", raw["status"])

	stored := normalize.Normalize(raw)
	require.Len(t, stored.Tasks, 2)
	assert.Equal(t, models.TaskToDo, stored.Tasks[0].Status)
	assert.Equal(t, models.TaskToDo, stored.Tasks[1].Status)

	listed := book.Orders()
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, 1, sink.Count(LevelSuccess))
}

func TestOrderCreatorValidationSendsNothing(t *testing.T) {
	orders, _, _ := newOrderStore(t)
	sink := NewMockSink()
	creator := NewOrderCreator(Deps{Orders: orders, Sink: sink, Now: fixedNow})

	in := validInput()
	in.ClientID = ""
	_, err := creator.Create(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	all, err := orders.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, "Please select a client", sink.All()[0].Message)
}

func TestOrderCreatorServiceFailure(t *testing.T) {
	orders, _, _ := newOrderStore(t)
	orders.setFailWrites(true)
	sink := NewMockSink()
	book := NewOrderBook(orders, NewMemoryCache(), sink, fastOptions())
	creator := NewOrderCreator(Deps{Orders: orders, Book: book, Sink: sink, Now: fixedNow})

	_, err := creator.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, errNetwork)
	assert.Empty(t, book.Orders())
	assert.Equal(t, 1, sink.Count(LevelError))
}
