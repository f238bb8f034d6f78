package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback, got %d", meta.HTTPStatus)
	}
}

func TestEveryCodeMapsToItsStatus(t *testing.T) {
	want := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeNotFound:        http.StatusNotFound,
		CodeInvalidDiscount: http.StatusUnprocessableEntity,
		CodeRateLimit:       http.StatusTooManyRequests,
		CodeInternal:        http.StatusInternalServerError,
		CodeDependency:      http.StatusServiceUnavailable,
	}
	if len(metadataByCode) != len(want) {
		t.Fatalf("expected %d registered codes, got %d", len(want), len(metadataByCode))
	}
	for code, status := range want {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("%s: expected %d, got %d", code, status, got)
		}
	}
}

func TestInvalidDiscountMetadata(t *testing.T) {
	meta := MetadataFor(CodeInvalidDiscount)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("invalid discount responses carry the refreshed cart as details")
	}
}

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := stdErrors.New("disk gone")
	err := Wrap(CodeDependency, cause, "load products")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable with errors.Is")
	}
	outer := fmt.Errorf("bootstrap: %w", err)
	if typed := As(outer); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected As to find coded error, got %v", typed)
	}
	if CodeOf(outer) != CodeDependency {
		t.Fatalf("unexpected code %s", CodeOf(outer))
	}
	if CodeOf(cause) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeValidation, stdErrors.New("inner"), "bad input"))
	dump := Dump(err)
	if dump.Code != CodeValidation {
		t.Fatalf("unexpected dump code %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if empty := Dump(nil); empty.TopMessage != "" {
		t.Fatalf("nil error should dump empty, got %+v", empty)
	}
}

func TestDumpRecognisesPostgresErrors(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "products_pkey", Table: "products", Message: "duplicate key value"})
	dump := Dump(err)
	if dump.DBDriver != "postgres" || dump.DBCode != "23505" || dump.DBConstraint != "products_pkey" {
		t.Fatalf("unexpected dump %+v", dump)
	}
	fields := dump.Fields()
	if fields["db_table"] != "products" {
		t.Fatalf("expected db_table field, got %v", fields)
	}
}
