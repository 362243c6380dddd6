package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/merge"
	"tableflip.dev/kcal/pkg/validate"
)

// ImportMode decides how an imported journal meets the local one.
type ImportMode string

const (
	// ImportReplace discards the local journal.
	ImportReplace ImportMode = "replace"
	// ImportPreferLocal merges, keeping local values on conflict.
	ImportPreferLocal ImportMode = "local"
	// ImportPreferImported merges, keeping imported values on conflict.
	ImportPreferImported ImportMode = "imported"
)

// ParseImportMode maps a flag value to a mode.
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ImportReplace, ImportPreferLocal, ImportPreferImported:
		return m, nil
	default:
		return "", fmt.Errorf("app: unknown import mode %q, expected one of replace, local, imported", s)
	}
}

// ImportResult describes a finished import.
type ImportResult struct {
	// Merged is false when the imported journal replaced the local one.
	Merged  bool
	Months  int
	Entries int
	Presets int
}

// Export returns everything stored.
func (s *Service) Export(ctx context.Context) (meal.DataStore, error) {
	if s.Persistence == nil {
		return meal.DataStore{}, errNoPersistence
	}
	return s.Persistence.AllKnownData(ctx)
}

// ExportTo writes the journal to w as an indented JSON document that Import
// accepts.
func (s *Service) ExportTo(ctx context.Context, w io.Writer) error {
	ds, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

// Import validates jsonText and stores it. The imported journal replaces
// the local one when mode is ImportReplace or when there is nothing local
// worth keeping; otherwise both are merged with the preferred side winning.
func (s *Service) Import(ctx context.Context, jsonText []byte, mode ImportMode) (ImportResult, error) {
	if s.Persistence == nil {
		return ImportResult{}, errNoPersistence
	}
	imported, err := validate.Datastore(jsonText)
	if err != nil {
		return ImportResult{}, err
	}
	local, err := s.Persistence.AllKnownData(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	next := imported
	switch {
	case mode == ImportReplace || !local.HasContent():
	case mode == ImportPreferLocal:
		next = merge.DataStores(local, imported)
		result.Merged = true
	case mode == ImportPreferImported:
		next = merge.DataStores(imported, local)
		result.Merged = true
	default:
		return ImportResult{}, fmt.Errorf("app: unknown import mode %q", mode)
	}

	if err := s.Persistence.Import(ctx, next, !result.Merged); err != nil {
		return ImportResult{}, err
	}
	result.Months = len(next.Database)
	for _, month := range next.Database {
		for _, day := range month {
			result.Entries += len(day)
		}
	}
	result.Presets = len(next.Presets)
	return result, nil
}
