package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"mercator-hq/ruleengine/pkg/config"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

const condAST = `{"condition":"a = 1","type":"CONDITION"}`

// stores returns one fresh instance of every backend.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	out := map[string]Store{"memory": NewMemoryStore()}
	for _, driver := range []string{DriverModernc, DriverMattn} {
		s, err := NewSQLiteStore(SQLiteOptions{
			Driver:  driver,
			Path:    filepath.Join(t.TempDir(), driver+".db"),
			WALMode: true,
		}, nil)
		if err != nil {
			t.Fatalf("failed to open %s store: %v", driver, err)
		}
		out[driver] = s
	}
	for _, s := range out {
		t.Cleanup(func() { s.Close() })
	}
	return out
}

func TestStore_SaveAndFind(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := s.Save(ctx, "adult", "a = 1", []byte(condAST))
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if id != 1 {
				t.Errorf("expected first ID 1, got %d", id)
			}

			r, err := s.FindByID(ctx, id)
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if r == nil {
				t.Fatal("expected rule, got nil")
			}
			if r.Name != "adult" || r.Text != "a = 1" || string(r.AST) != condAST {
				t.Errorf("unexpected rule: %+v", r)
			}
			if r.CreatedAt.IsZero() || !r.CreatedAt.Equal(r.UpdatedAt) {
				t.Errorf("unexpected timestamps: %v %v", r.CreatedAt, r.UpdatedAt)
			}
		})
	}
}

func TestStore_FindByIDMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			r, err := s.FindByID(context.Background(), 42)
			if err != nil || r != nil {
				t.Errorf("expected nil, nil; got %v, %v", r, err)
			}
		})
	}
}

func TestStore_FindAllByIDs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, n := range []string{"one", "two", "three"} {
				if _, err := s.Save(ctx, n, n+" = 1", []byte(condAST)); err != nil {
					t.Fatal(err)
				}
			}

			got, err := s.FindAllByIDs(ctx, []int64{3, 1, 99, 3})
			if err != nil {
				t.Fatalf("FindAllByIDs() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 rules, got %d", len(got))
			}
			if got[0].ID != 1 || got[1].ID != 3 {
				t.Errorf("expected IDs [1 3], got [%d %d]", got[0].ID, got[1].ID)
			}

			none, err := s.FindAllByIDs(ctx, nil)
			if err != nil || len(none) != 0 {
				t.Errorf("expected empty result, got %v, %v", none, err)
			}
		})
	}
}

func TestStore_FindByName(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s.Save(ctx, "dup", "a = 1", []byte(condAST))
			s.Save(ctx, "dup", "b = 2", []byte(condAST))

			r, err := s.FindByName(ctx, "dup")
			if err != nil || r == nil {
				t.Fatalf("FindByName() = %v, %v", r, err)
			}
			if r.ID != 1 {
				t.Errorf("expected oldest rule, got ID %d", r.ID)
			}

			r, err = s.FindByName(ctx, "nope")
			if err != nil || r != nil {
				t.Errorf("expected nil, nil; got %v, %v", r, err)
			}
		})
	}
}

func TestStore_UpdateDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, _ := s.Save(ctx, "r", "a = 1", []byte(condAST))

			newAST := `{"condition":"b = 2","type":"CONDITION"}`
			if err := s.Update(ctx, id, "b = 2", []byte(newAST)); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			r, _ := s.FindByID(ctx, id)
			if r.Text != "b = 2" || string(r.AST) != newAST || r.Name != "r" {
				t.Errorf("unexpected rule after update: %+v", r)
			}
			if r.UpdatedAt.Before(r.CreatedAt) {
				t.Errorf("updated_at before created_at")
			}

			var nf *ruleerrors.NotFoundError
			if err := s.Update(ctx, 99, "x", nil); !errors.As(err, &nf) {
				t.Errorf("expected NotFoundError from Update, got %v", err)
			}

			if err := s.Delete(ctx, id); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := s.Delete(ctx, id); !errors.As(err, &nf) {
				t.Errorf("expected NotFoundError from second Delete, got %v", err)
			}

			// IDs are never reused.
			next, _ := s.Save(ctx, "r2", "a = 1", []byte(condAST))
			if next != id+1 {
				t.Errorf("expected ID %d, got %d", id+1, next)
			}
		})
	}
}

func TestStore_ListCount(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				s.Save(ctx, "r", "a = 1", []byte(condAST))
			}

			all, err := s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 rules, got %d", len(all))
			}
			for i, r := range all {
				if r.ID != int64(i+1) {
					t.Errorf("expected ID %d at %d, got %d", i+1, i, r.ID)
				}
			}

			n, err := s.Count(ctx)
			if err != nil || n != 3 {
				t.Errorf("Count() = %d, %v", n, err)
			}
			if err := s.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestMemoryStore_CopiesAST(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ast := []byte(condAST)
	id, _ := s.Save(ctx, "r", "a = 1", ast)
	ast[0] = 'X'

	r, _ := s.FindByID(ctx, id)
	r.AST[1] = 'Y'

	again, _ := s.FindByID(ctx, id)
	if string(again.AST) != condAST {
		t.Errorf("stored AST was mutated: %s", again.AST)
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rules.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(SQLiteOptions{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, "kept", "a = 1", []byte(condAST)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(SQLiteOptions{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	r, err := reopened.FindByName(ctx, "kept")
	if err != nil || r == nil {
		t.Fatalf("expected persisted rule, got %v, %v", r, err)
	}
}

func TestSQLiteStore_Maintain(t *testing.T) {
	for _, wal := range []bool{true, false} {
		s, err := NewSQLiteStore(SQLiteOptions{Path: filepath.Join(t.TempDir(), "m.db"), WALMode: wal}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Maintain(context.Background()); err != nil {
			t.Errorf("Maintain(wal=%v) error = %v", wal, err)
		}
		s.Close()
	}
}

func TestSQLiteStore_InMemorySingleConnection(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverMattn} {
		t.Run(driver, func(t *testing.T) {
			s, err := NewSQLiteStore(SQLiteOptions{Driver: driver, Path: MemoryPath, MaxOpenConns: 4}, nil)
			if err != nil {
				t.Fatalf("failed to open in-memory store: %v", err)
			}
			defer s.Close()

			if got := s.db.Stats().MaxOpenConnections; got != 1 {
				t.Errorf("MaxOpenConnections = %d, want 1", got)
			}

			ctx := context.Background()
			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					id, err := s.Save(ctx, "r", "a = 1", []byte(condAST))
					if err != nil {
						errs <- err
						return
					}
					if _, err := s.FindByID(ctx, id); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Errorf("concurrent access failed: %v", err)
			}

			if n, err := s.Count(ctx); err != nil || n != 8 {
				t.Errorf("Count() = %d, %v; want 8", n, err)
			}
		})
	}
}

func TestNewSQLiteStore_Errors(t *testing.T) {
	if _, err := NewSQLiteStore(SQLiteOptions{}, nil); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewSQLiteStore(SQLiteOptions{Driver: "postgres", Path: "x.db"}, nil); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{"memory", false},
		{DriverModernc, false},
		{DriverMattn, false},
		{"bogus", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := config.Default().Storage
			cfg.Driver = tt.driver
			cfg.SQLite.Path = filepath.Join(t.TempDir(), "open.db")

			s, err := Open(cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
