package procgen_test

import (
	"errors"
	"strings"
	"testing"

	"db-syncgen/internal/procgen"
)

func TestResultErr(t *testing.T) {
	ok := procgen.Result{Status: procgen.StatusSuccess, SyncedRows: 3}
	if err := ok.Err(); err != nil {
		t.Errorf("success Err() = %v", err)
	}

	failed := procgen.Result{
		Status:     procgen.StatusInterrupted,
		Step:       procgen.StepChildInsert,
		SourceKey:  "alice",
		SQLState:   "23000",
		Detail:     "Duplicate entry",
		SyncedRows: 2,
	}
	err := failed.Err()
	var ie *procgen.InterruptedError
	if !errors.As(err, &ie) {
		t.Fatalf("Err() = %v, want InterruptedError", err)
	}
	if ie.Result.SyncedRows != 2 {
		t.Errorf("SyncedRows = %d", ie.Result.SyncedRows)
	}
	for _, want := range []string{"child table insert", `"alice"`, "23000", "Duplicate entry", "2 rows"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q lacks %q", err, want)
		}
	}
}
