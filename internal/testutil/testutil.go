// Package testutil provides shared test utilities and fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCSV is a small dissolved-gas export in the field format: two units,
// day-first dates, a missing reference and a non-numeric gas cell.
const SampleCSV = `Date,T.Number,ref,Hydrogen,Methane,Ethane,Ethylene,Acetylene,Carbon.dioxide,Carbon.monoxide
15/01/2019,TX1,50,10,20,5,3,0,900,150
12/04/2019,TX1,51,12,22,5,3,0,910,155
20/08/2019,TX1,52,15,25,6,4,0,930,160
03/01/2020,TX1,52,19,27,6,4,0,950,170
14/06/2020,TX1,,24,31,7,5,0,990,180
22/09/2020,TX1,53,30,34,7,5,1,1010,190
05/02/2021,TX1,54,38,39,8,6,1,1050,200
30/07/2021,TX1,55,47,44,8,6,1,1080,210
18/01/2022,TX1,55,60,50,9,7,2,1120,230
02/03/2019,TX2,40,5,8,2,1,0,500,90
11/11/2019,TX2,40,5,n/a,2,1,0,510,92
07/05/2020,TX2,41,6,9,2,1,0,505,91
`

// WriteTempFile writes content to name inside a fresh temp directory and
// returns the full path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
