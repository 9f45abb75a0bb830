// Package input reads city lists from plain text and TSPLIB files.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.solver4all.com/azaryc2s/twotsp"
)

// ErrMalformedRecord marks a record that could not be parsed. Readers stop
// at such a record and return the cities parsed before it.
var ErrMalformedRecord = errors.New("input: malformed record")

// ReadCities reads a city count on the first line followed by one "id x y"
// record per line. Blank lines are skipped.
func ReadCities(r io.Reader) ([]twotsp.City, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	count := -1
	for count < 0 && scanner.Scan() {
		line++
		t := strings.TrimSpace(scanner.Text())
		if t == "" {
			continue
		}
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: line %d: city count %q", ErrMalformedRecord, line, t)
		}
		count = n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: missing city count", ErrMalformedRecord)
	}

	cities := make([]twotsp.City, 0, count)
	for len(cities) < count && scanner.Scan() {
		line++
		t := strings.TrimSpace(scanner.Text())
		if t == "" {
			continue
		}
		c, err := parseCity(strings.Fields(t))
		if err != nil {
			return cities, fmt.Errorf("line %d: %w", line, err)
		}
		cities = append(cities, c)
	}
	if err := scanner.Err(); err != nil {
		return cities, err
	}
	if len(cities) < count {
		return cities, fmt.Errorf("%w: expected %d cities, got %d", ErrMalformedRecord, count, len(cities))
	}
	return cities, nil
}

func parseCity(fields []string) (twotsp.City, error) {
	if len(fields) != 3 {
		return twotsp.City{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedRecord, len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return twotsp.City{}, fmt.Errorf("%w: id %q", ErrMalformedRecord, fields[0])
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return twotsp.City{}, fmt.Errorf("%w: x %q", ErrMalformedRecord, fields[1])
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return twotsp.City{}, fmt.Errorf("%w: y %q", ErrMalformedRecord, fields[2])
	}
	return twotsp.City{ID: id, X: x, Y: y}, nil
}
