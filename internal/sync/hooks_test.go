package sync

import (
	"testing"

	"github.com/eduboutique/storefront/internal/models"
)

type enqueued struct {
	taskType models.TaskType
	entityID string
}

type fakeQueue struct {
	tasks []enqueued
}

func (q *fakeQueue) Enqueue(taskType models.TaskType, entityID string) error {
	q.tasks = append(q.tasks, enqueued{taskType, entityID})
	return nil
}

func TestObserverProductCreatedQueuesPush(t *testing.T) {
	q := &fakeQueue{}
	o := NewObserver(q)

	o.ProductCreated(&models.Product{ID: "p1", Title: "Intro Biology"})

	if len(q.tasks) != 1 || q.tasks[0].taskType != models.TaskPushProduct || q.tasks[0].entityID != "p1" {
		t.Fatalf("expected one push_product task for p1, got %+v", q.tasks)
	}
}

func TestObserverProductUpdatedTriage(t *testing.T) {
	tests := []struct {
		name    string
		changed FieldSet
		want    []models.TaskType
	}{
		{
			"metadata only is housekeeping",
			NewFieldSet(FieldOdooProductID, FieldOdooSyncedAt),
			nil,
		},
		{
			"no syncable field touched",
			NewFieldSet(FieldCategoryID),
			nil,
		},
		{
			"stock quantity alone takes the stock path",
			NewFieldSet(FieldStockQuantity),
			[]models.TaskType{models.TaskPushStock},
		},
		{
			"stock plus metadata still stock-only",
			NewFieldSet(FieldStockQuantity, FieldOdooSyncedAt),
			[]models.TaskType{models.TaskPushStock},
		},
		{
			"stock plus another field is a full push",
			NewFieldSet(FieldStockQuantity, FieldPriceUSD),
			[]models.TaskType{models.TaskPushProduct},
		},
		{
			"title change is a full push",
			NewFieldSet(FieldTitle),
			[]models.TaskType{models.TaskPushProduct},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQueue{}
			o := NewObserver(q)

			o.ProductUpdated(&models.Product{ID: "p1", Title: "X"}, tt.changed)

			if len(q.tasks) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d: %+v", len(q.tasks), len(tt.want), q.tasks)
			}
			for i, want := range tt.want {
				if q.tasks[i].taskType != want {
					t.Errorf("task %d = %s, want %s", i, q.tasks[i].taskType, want)
				}
			}
		})
	}
}

func TestObserverProductDeletedDoesNotQueue(t *testing.T) {
	q := &fakeQueue{}
	o := NewObserver(q)

	odooID := int64(42)
	o.ProductDeleted(&models.Product{ID: "p1", Title: "Gone", OdooProductID: &odooID})

	if len(q.tasks) != 0 {
		t.Errorf("delete must not queue work, got %+v", q.tasks)
	}
}

func TestObserverCustomerSaved(t *testing.T) {
	q := &fakeQueue{}
	o := NewObserver(q)

	o.CustomerSaved(&models.Customer{ID: "c1", Email: "a@b.cd"}, nil, true)
	if len(q.tasks) != 1 || q.tasks[0].taskType != models.TaskPushCustomer {
		t.Fatalf("created customer should queue push_customer, got %+v", q.tasks)
	}

	// Metadata-only update is sync housekeeping.
	o.CustomerSaved(&models.Customer{ID: "c1"}, NewFieldSet(FieldOdooPartnerID, FieldOdooSyncedAt), false)
	if len(q.tasks) != 1 {
		t.Errorf("metadata-only update must not queue, got %+v", q.tasks)
	}

	o.CustomerSaved(&models.Customer{ID: "c1"}, NewFieldSet(FieldPhone), false)
	if len(q.tasks) != 2 {
		t.Errorf("contact field update should queue, got %+v", q.tasks)
	}
}

func TestObserverNilQueueIsSafe(t *testing.T) {
	o := NewObserver(nil)
	o.ProductCreated(&models.Product{ID: "p1"})
	o.ProductUpdated(&models.Product{ID: "p1"}, NewFieldSet(FieldTitle))
}
