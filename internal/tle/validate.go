package tle

import (
	"fmt"
	"strings"
)

const elementLineLen = 69

// ValidateRecord checks that data looks like a single TLE record: an optional
// name line followed by two element lines of the standard fixed width, each
// carrying a valid mod-10 checksum. It does not decode orbital elements.
func ValidateRecord(data []byte) error {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	var line1, line2 string
	switch len(lines) {
	case 2:
		line1, line2 = lines[0], lines[1]
	case 3:
		line1, line2 = lines[1], lines[2]
	case 0:
		return fmt.Errorf("empty TLE record")
	default:
		return fmt.Errorf("expected 2 or 3 lines, got %d", len(lines))
	}

	if err := validateElementLine(line1, '1'); err != nil {
		return fmt.Errorf("line 1: %w", err)
	}
	if err := validateElementLine(line2, '2'); err != nil {
		return fmt.Errorf("line 2: %w", err)
	}
	return nil
}

func validateElementLine(line string, lineNum byte) error {
	if len(line) != elementLineLen {
		return fmt.Errorf("length %d, expected %d", len(line), elementLineLen)
	}
	if line[0] != lineNum || line[1] != ' ' {
		return fmt.Errorf("must start with %q", string(lineNum)+" ")
	}

	sum := checksum(line[:elementLineLen-1])
	want := line[elementLineLen-1]
	if want < '0' || want > '9' {
		return fmt.Errorf("checksum column is not a digit: %q", string(want))
	}
	if byte('0'+sum) != want {
		return fmt.Errorf("checksum mismatch: computed %d, line has %c", sum, want)
	}
	return nil
}

// checksum computes the TLE mod-10 checksum: digits count as their value,
// minus signs count as 1, everything else counts as 0.
func checksum(s string) int {
	var sum int
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
