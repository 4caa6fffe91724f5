// Package testutil provides shared test infrastructure for the DCF simulator.
// It holds the golden dataset of analytical operating points and the
// assertion helpers used by the sim/ and sim/theory/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	OperatingPoints []GoldenOperatingPoint `json:"operating_points"`
}

// GoldenOperatingPoint is one solved operating point of the analytical model
// together with the saturation throughput of both access modes under default timing.
type GoldenOperatingPoint struct {
	Stations           int     `json:"stations"`
	CWMin              int     `json:"cw_min"`
	MaxBackoffStage    int     `json:"max_backoff_stage"`
	Tao                float64 `json:"tao"`
	SuccessProbability float64 `json:"success_probability"`
	BasicMbps          float64 `json:"basic_mbps"`
	RTSCTSMbps         float64 `json:"rts_cts_mbps"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.OperatingPoints) == 0 {
		t.Fatal("golden dataset has no operating points")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
