package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches pq unique violation", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "rounds_night_public_id_number_key"}
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for 23505 error")
		}
	})

	t.Run("matches wrapped pq error", func(t *testing.T) {
		err := fmt.Errorf("insert round: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for wrapped 23505 error")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUniqueViolation(errors.New("connection refused")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null int, got %v", *got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 13, Valid: true}); got == nil || *got != 13 {
		t.Fatalf("unexpected int pointer: %v", got)
	}

	score := 7
	if got := intPtrToNullInt64(&score); !got.Valid || got.Int64 != 7 {
		t.Fatalf("unexpected null int: %+v", got)
	}
	if got := intPtrToNullInt64(nil); got.Valid {
		t.Fatalf("expected invalid null int, got %+v", got)
	}
}
