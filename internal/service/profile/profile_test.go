package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
)

// memoryRepo 基于 map 的用户资料仓库
type memoryRepo struct {
	rows map[string]*model.UserActivity
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*model.UserActivity)}
}

func (m *memoryRepo) Get(ctx context.Context, userID string) (*model.UserActivity, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *row
	return &c, nil
}

func (m *memoryRepo) UpsertUsername(ctx context.Context, userID string, username *string) (*model.UserActivity, error) {
	row, ok := m.rows[userID]
	if !ok {
		row = &model.UserActivity{UserID: userID}
		m.rows[userID] = row
	}
	if username != nil {
		row.Username = username
	}
	return m.Get(ctx, userID)
}

func (m *memoryRepo) ReplaceInterests(ctx context.Context, userID string, interests []string) (*model.UserActivity, error) {
	row, ok := m.rows[userID]
	if !ok {
		row = &model.UserActivity{UserID: userID}
		m.rows[userID] = row
	}
	row.Interests = interests
	return m.Get(ctx, userID)
}

func TestNormalizeInterests(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trim and drop empty", []string{" hiking ", "", "  "}, []string{"hiking"}},
		{"case insensitive dedupe keeps first", []string{"Food", "food", "FOOD", "museums"}, []string{"Food", "museums"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeInterests(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestService_Flow(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepo())

	p, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Username != nil || p.Interests == nil || len(p.Interests) != 0 {
		t.Errorf("expected empty profile, got %+v", p)
	}

	name := "Alice"
	if _, err := svc.Upsert(ctx, "u1", &name); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	p, err = svc.Upsert(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if p.Username == nil || *p.Username != "Alice" {
		t.Errorf("username should be kept, got %v", p.Username)
	}

	p, err = svc.UpdateInterests(ctx, "u1", []string{"Beaches", "beaches", " food "})
	if err != nil {
		t.Fatalf("UpdateInterests() error = %v", err)
	}
	if len(p.Interests) != 2 || p.Interests[1] != "food" {
		t.Errorf("unexpected interests %v", p.Interests)
	}

	if _, err := svc.Lookup(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Get(context.Background(), "u1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
