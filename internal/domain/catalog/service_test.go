package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	items map[uuid.UUID]*TestDefinition
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*TestDefinition)}
}

func (m *mockRepo) Create(_ context.Context, td *TestDefinition) error {
	td.ID = uuid.New()
	m.items[td.ID] = td
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*TestDefinition, error) {
	td, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return td, nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*TestDefinition, error) {
	for _, td := range m.items {
		if td.Code == code {
			return td, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, td *TestDefinition) error {
	m.items[td.ID] = td
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*TestDefinition, int, error) {
	var out []*TestDefinition
	for _, td := range m.items {
		if activeOnly && !td.Active {
			continue
		}
		out = append(out, td)
	}
	return out, len(out), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func TestCreate_Valid(t *testing.T) {
	svc, _ := newTestService()
	td, err := svc.Create(context.Background(), CreateTestInput{Code: "CBC", Name: "Complete Blood Count", Price: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if td.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if !td.Active {
		t.Error("expected new test to default to active")
	}
}

func TestCreate_RequiresCodeAndName(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), CreateTestInput{Name: "X", Price: 1}); err == nil {
		t.Error("expected error for missing code")
	}
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "X", Price: 1}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "X", Name: "X", Price: -1}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "CBC", Name: "One", Price: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "CBC", Name: "Two", Price: 2}); err == nil {
		t.Error("expected duplicate code error")
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newTestService()
	td, err := svc.Create(context.Background(), CreateTestInput{Code: "LIP", Name: "Lipid Panel", Price: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price := 45.0
	updated, err := svc.Update(context.Background(), td.ID, UpdateTestInput{Price: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 45 {
		t.Errorf("expected price 45, got %v", updated.Price)
	}
	if updated.Name != "Lipid Panel" {
		t.Errorf("name should be unchanged, got %q", updated.Name)
	}
}

func TestList_ActiveOnly(t *testing.T) {
	svc, repo := newTestService()
	inactive := false
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "A", Name: "A", Price: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateTestInput{Code: "B", Name: "B", Price: 1, Active: &inactive}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = repo

	items, total, err := svc.List(context.Background(), true, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 active test, got %d", total)
	}
}
