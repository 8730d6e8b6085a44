package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxEntrantNameLength = 50

type EntryService struct{}

func NewEntryService() *EntryService {
	return &EntryService{}
}

// ParseEntrants reads one entrant per line, skipping blank lines.
func (s *EntryService) ParseEntrants(text string) ([]string, error) {
	var names []string

	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if err := validateEntrantName(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, nil
}

func validateEntrantName(name string) error {
	if utf8.RuneCountInString(name) > maxEntrantNameLength {
		return fmt.Errorf("%w: '%s'", ErrEntrantNameTooLong, name)
	}
	return nil
}
