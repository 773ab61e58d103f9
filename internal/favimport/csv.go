// Package favimport loads favorite foods from CSV files dropped into a
// watched directory.
package favimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thetunix/Calzen/internal/tracker"
)

var expectedHeader = []string{"Name", "Kcal", "Protein", "Fat", "Carbs"}

// ParseFile reads favorites from the CSV at path.
func ParseFile(path string) ([]tracker.FavoriteItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening favorites file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads favorites from CSV with the header Name,Kcal,Protein,Fat,Carbs.
// Empty numeric cells count as zero.
func Parse(r io.Reader) ([]tracker.FavoriteItem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), expectedHeader[i]) {
			return nil, fmt.Errorf("invalid header: expected %s at position %d, got %s", expectedHeader[i], i, h)
		}
	}

	var items []tracker.FavoriteItem
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		nums := make([]float64, 4)
		for i := range nums {
			cell := strings.TrimSpace(record[i+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing %s %q: %w", line, expectedHeader[i+1], cell, err)
			}
			nums[i] = v
		}

		items = append(items, tracker.FavoriteItem{
			Name:   strings.TrimSpace(record[0]),
			Macros: tracker.Macros{Kcal: nums[0], Protein: nums[1], Fat: nums[2], Carbs: nums[3]},
		})
	}

	return items, nil
}
