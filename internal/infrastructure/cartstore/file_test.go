package cartstore

import (
	"context"
	"errors"
	"testing"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/spf13/afero"
)

func TestFileStorage_LoadMissingFile(t *testing.T) {
	storage := NewFileStorage(afero.NewMemMapFs(), "data/cart.json")

	state, err := storage.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if state != nil {
		t.Errorf("Load() = %+v, want nil for missing file", state)
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	storage := NewFileStorage(afero.NewMemMapFs(), "data/cart.json")
	ctx := context.Background()

	saved := &domain.CartState{
		Items: []domain.CartLine{
			{Code: "111", Name: "Oat Milk", Brand: "Oaty", NutritionGrade: "b", Quantity: 2},
			{Code: "222", Name: "Crackers", Quantity: 1},
		},
		TotalItems: 3,
	}

	if err := storage.Save(ctx, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want saved state")
	}

	if len(loaded.Items) != 2 {
		t.Fatalf("Load() items = %d, want 2", len(loaded.Items))
	}
	for i, line := range saved.Items {
		if loaded.Items[i] != line {
			t.Errorf("Load() items[%d] = %+v, want %+v", i, loaded.Items[i], line)
		}
	}
	if loaded.TotalItems != 3 {
		t.Errorf("Load() totalItems = %d, want 3", loaded.TotalItems)
	}
}

func TestFileStorage_SaveOverwritesWholesale(t *testing.T) {
	storage := NewFileStorage(afero.NewMemMapFs(), "cart.json")
	ctx := context.Background()

	first := &domain.CartState{
		Items:      []domain.CartLine{{Code: "111", Quantity: 5}},
		TotalItems: 5,
	}
	if err := storage.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := &domain.CartState{Items: []domain.CartLine{}, TotalItems: 0}
	if err := storage.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Items) != 0 || loaded.TotalItems != 0 {
		t.Errorf("Load() = %+v, want empty state", loaded)
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "cart.json", []byte(`{"items": [`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	storage := NewFileStorage(fs, "cart.json")

	_, err := storage.Load(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("Load() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestFileStorage_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	storage := NewFileStorage(fs, "cart.json")

	err := storage.Save(context.Background(), &domain.CartState{})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("Save() error = %v, want ErrStorageUnavailable", err)
	}
}
