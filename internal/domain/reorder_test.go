package domain

import (
	"testing"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

func TestReorder(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}

	cases := []struct {
		name     string
		moved    int
		newIndex int
		want     []int
	}{
		{"forward", 1, 3, []int{0, 2, 3, 1, 4}},
		{"backward", 3, 0, []int{3, 0, 1, 2, 4}},
		{"to end", 0, 4, []int{1, 2, 3, 4, 0}},
		{"past end clamps", 0, 99, []int{1, 2, 3, 4, 0}},
		{"negative clamps", 4, -2, []int{4, 0, 1, 2, 3}},
		{"no-op", 2, 2, []int{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		got, err := Reorder(ids, ids[tc.moved], tc.newIndex)
		if err != nil {
			t.Fatalf("%s: Reorder: %v", tc.name, err)
		}
		if len(got) != len(ids) {
			t.Fatalf("%s: length changed: %d", tc.name, len(got))
		}
		for i, wantIdx := range tc.want {
			if got[i] != ids[wantIdx] {
				t.Fatalf("%s: position %d: want ids[%d], got %v", tc.name, i, wantIdx, got[i])
			}
		}
	}
}

func TestReorder_Idempotent(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	once, err := Reorder(ids, ids[0], 2)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	twice, err := Reorder(once, ids[0], 2)
	if err != nil {
		t.Fatalf("Reorder again: %v", err)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("repeat of the same move changed the order at %d", i)
		}
	}
}

func TestReorder_UnknownID(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := Reorder(ids, uuid.New(), 0)
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestReorder_DoesNotMutateInput(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	orig := []uuid.UUID{ids[0], ids[1], ids[2]}
	if _, err := Reorder(ids, ids[2], 0); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	for i := range orig {
		if ids[i] != orig[i] {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}
