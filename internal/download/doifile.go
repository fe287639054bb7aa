// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// doiPrefix marks a valid DOI line; every registered DOI starts with "10.".
const doiPrefix = "10."

// ReadDOIFile parses a DOI list: one token per line, lines not beginning
// with the DOI prefix ignored. Accepted lines become descriptors with the
// title defaulted to the DOI itself, so the DOI doubles as the filename.
func ReadDOIFile(r io.Reader) ([]Descriptor, error) {
	var items []Descriptor
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, doiPrefix) {
			continue
		}
		items = append(items, Descriptor{Title: line, DOI: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading doi file: %w", err)
	}
	return items, nil
}
