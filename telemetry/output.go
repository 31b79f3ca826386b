package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/config"
)

// OutputManager writes structured run output: the census CSV and a snapshot
// of the effective configuration.
type OutputManager struct {
	dir        string
	censusFile *os.File

	censusHeaderWritten bool
}

// NewOutputManager creates the output directory and the census file.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "census.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating census.csv: %w", err)
	}
	return &OutputManager{dir: dir, censusFile: f}, nil
}

// WriteConfig saves the effective configuration as YAML next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCensus appends one closed window to the census CSV. The header goes
// out with the first row only.
func (om *OutputManager) WriteCensus(window *WindowStats) error {
	records := []*WindowStats{window}

	if !om.censusHeaderWritten {
		if err := gocsv.Marshal(records, om.censusFile); err != nil {
			return fmt.Errorf("writing census.csv: %w", err)
		}
		om.censusHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.censusFile); err != nil {
		return fmt.Errorf("writing census.csv: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	return om.censusFile.Close()
}
