package importer

import (
	"casebook/storage"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "casebook_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

const clientsCSV = `client_code,first_name,last_name,date_of_birth,sex,email,assessor_code
C-001,Ada,Byron,1985-12-10,female,ADA@Example.org,A-1
C-002,Grace,Hopper,09.12.1906,F,,A-1
C-003,Alan,Turing,not a date,M,,
C-004,,Lovelace,1990-01-01,F,,
C-001,Ada,Again,1985-12-10,F,,
C-005,Edsger,Dijkstra,05/11/1930,male,edsger@example.org,
`

func TestClientImport_EndToEnd(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	path := writeCSV(t, clientsCSV)

	result, err := ImportEntity(ctx, store, "clients", path)
	if err != nil {
		t.Fatalf("import clients: %v", err)
	}

	if result.Success != 3 || result.Failed != 3 {
		t.Fatalf("expected 3/3, got %d/%d (errors=%v)", result.Success, result.Failed, result.Errors)
	}
	wantErrors := []string{"Failed to parse row 3", "Validation failed for row 4"}
	if !reflect.DeepEqual(result.Errors, wantErrors) {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Duplicates) != 1 || result.Duplicates[0].Message != "Duplicate found for row 5" {
		t.Fatalf("unexpected duplicates: %+v", result.Duplicates)
	}
	if !result.Committed || !result.Durable() {
		t.Fatalf("expected committed import")
	}

	firstID, found, err := storage.FindClientIDByCode(ctx, store, "C-001")
	if err != nil || !found {
		t.Fatalf("expected C-001 stored: found=%v err=%v", found, err)
	}
	if result.Duplicates[0].ExistingID != firstID {
		t.Fatalf("expected duplicate to reference id %d, got %d", firstID, result.Duplicates[0].ExistingID)
	}

	clients, err := storage.ListClients(ctx, store)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("expected 3 stored clients, got %d", len(clients))
	}
	for _, client := range clients {
		if client.Code == "C-001" && (client.Email != "ada@example.org" || client.Sex != "F") {
			t.Fatalf("expected normalized email and sex, got %+v", client)
		}
	}

	again, err := ImportEntity(ctx, store, "client", path)
	if err != nil {
		t.Fatalf("re-import clients: %v", err)
	}
	if again.Success != 0 || len(again.Duplicates) != 4 {
		t.Fatalf("expected every valid row to be a duplicate on re-run, got %+v", again)
	}
}

func TestAssessorImport_MissingHeader(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	result, err := ImportEntity(ctx, store, "assessor", writeCSV(t, "assessor_code,name\nA-1,Jane\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Aborted() || !reflect.DeepEqual(result.MissingHeaders, []string{"full_name"}) {
		t.Fatalf("expected abort on full_name, got %+v", result)
	}

	count, err := store.CountAssessors(ctx)
	if err != nil {
		t.Fatalf("count assessors: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no assessors stored, got %d", count)
	}
}

func TestAssessorImport_EmailValidation(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	content := "assessor_code,full_name,credentials,email\nA-1,Dr. Jane Roe,PhD,jane@example.org\nA-2,Sam Poe,,not-an-email\n,No Code,,\n"

	result, err := AssessorImport().Run(context.Background(), store, writeCSV(t, content))
	if err != nil {
		t.Fatalf("import assessors: %v", err)
	}
	want := []string{"Validation failed for row 2", "Failed to parse row 3"}
	if result.Success != 1 || !reflect.DeepEqual(result.Errors, want) {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImportEntity_UnknownEntity(t *testing.T) {
	t.Parallel()

	_, err := ImportEntity(context.Background(), openTestStore(t), "invoice", "x.csv")
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}
