package testutil

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestSampleCSV_WellFormed(t *testing.T) {
	records, err := csv.NewReader(strings.NewReader(SampleCSV)).ReadAll()
	if err != nil {
		t.Fatalf("SampleCSV does not parse: %v", err)
	}
	if len(records) != 13 {
		t.Errorf("SampleCSV has %d records, want 13", len(records))
	}
	if records[0][0] != "Date" || records[0][1] != "T.Number" || records[0][2] != "ref" {
		t.Errorf("unexpected header %v", records[0])
	}
}

func TestWriteTempFile(t *testing.T) {
	path := WriteTempFile(t, "data.csv", "a,b\n")
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != "a,b\n" {
		t.Errorf("content = %q", data)
	}
}

func TestAssertHelpers(t *testing.T) {
	AssertStatusCode(t, 200, 200)
	AssertNoError(t, nil)
	AssertError(t, errors.New("boom"))
}
