package namedict

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// ReadNames reads display names from the first column of a CSV stream.
// The first row is a header and is skipped, as are blank cells.
func ReadNames(r io.Reader) ([]string, error) {
	reader := gocsv.DefaultCSVReader(r)

	var names []string
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading names: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// LoadNames reads display names from the first column of a CSV file.
func LoadNames(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening names file: %w", err)
	}
	defer file.Close()

	names, err := ReadNames(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return names, nil
}

// Load builds a Dictionary from a first-name CSV file and a surname CSV file.
func Load(firstNamesFile, surnamesFile string) (*Dictionary, error) {
	firstNames, err := LoadNames(firstNamesFile)
	if err != nil {
		return nil, err
	}
	surnames, err := LoadNames(surnamesFile)
	if err != nil {
		return nil, err
	}
	return New(firstNames, surnames), nil
}
