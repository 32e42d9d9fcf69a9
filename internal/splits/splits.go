// Package splits reads and writes YAML split files.
package splits

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuisplit/internal/model"
)

// CurrentVersion is the split file version written by Save.
const CurrentVersion = 2

var (
	// ErrNoSplits is returned for a split file without any splits.
	ErrNoSplits = errors.New("split file has no splits")
	// ErrUnsupportedVersion is returned for a version newer than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported split file version")
)

// File is the on-disk layout. Version 2 stores one row per split; version 1
// stored parallel columns that may differ in length.
type File struct {
	Version      int        `yaml:"version"`
	Game         string     `yaml:"game"`
	Category     string     `yaml:"category"`
	Offset       uint64     `yaml:"offset,omitempty"`
	PersonalBest uint64     `yaml:"personal_best"`
	Splits       []Split    `yaml:"splits,omitempty"`
	SplitNames   []string   `yaml:"split_names,omitempty"`
	PBTimes      []uint64   `yaml:"pb_times,omitempty"`
	GoldTimes    []uint64   `yaml:"gold_times,omitempty"`
	SumTimes     [][]uint64 `yaml:"sum_times,omitempty"`
}

// Split is one row of a version 2 file. Times are milliseconds, 0 when unset.
type Split struct {
	Name     string `yaml:"name"`
	PB       uint64 `yaml:"pb"`
	Gold     uint64 `yaml:"gold"`
	Attempts uint64 `yaml:"attempts"`
	Total    uint64 `yaml:"total"`
}

// Parse decodes a split file, upgrading version 1 layouts.
func Parse(data []byte) (*model.Run, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode split file: %w", err)
	}
	if f.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if f.Version < CurrentVersion {
		upgrade(&f)
	}
	if len(f.Splits) == 0 {
		return nil, ErrNoSplits
	}
	return toRun(f), nil
}

// Load reads and parses the split file at path.
func Load(path string) (*model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	run, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return run, nil
}

// Marshal encodes run as a version 2 split file.
func Marshal(run *model.Run) ([]byte, error) {
	return yaml.Marshal(fromRun(run))
}

// Save writes run to path atomically.
func Save(path string, run *model.Run) error {
	data, err := Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode split file: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create split file dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".splits-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp split file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write split file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close split file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write split file: %w", err)
	}
	return nil
}

// upgrade converts the columnar layout to rows. Columns shorter than
// split_names are padded with unset entries; longer ones are truncated.
func upgrade(f *File) {
	if len(f.Splits) > 0 {
		f.Version = CurrentVersion
		return
	}
	rows := make([]Split, len(f.SplitNames))
	for i, name := range f.SplitNames {
		rows[i].Name = name
		if i < len(f.PBTimes) {
			rows[i].PB = f.PBTimes[i]
		}
		if i < len(f.GoldTimes) {
			rows[i].Gold = f.GoldTimes[i]
		}
		if i < len(f.SumTimes) && len(f.SumTimes[i]) == 2 {
			rows[i].Attempts = f.SumTimes[i][0]
			rows[i].Total = f.SumTimes[i][1]
		}
	}
	f.Splits = rows
	f.SplitNames = nil
	f.PBTimes = nil
	f.GoldTimes = nil
	f.SumTimes = nil
	f.Version = CurrentVersion
}

func toRun(f File) *model.Run {
	n := len(f.Splits)
	names := make([]string, n)
	pb := make([]model.Time, n)
	gold := make([]model.Time, n)
	sums := make([]model.SumTime, n)
	for i, s := range f.Splits {
		names[i] = s.Name
		pb[i] = model.NewTime(s.PB)
		gold[i] = model.NewTime(s.Gold)
		sums[i] = model.SumTime{Attempts: s.Attempts, Total: model.NewTime(s.Total)}
	}
	return model.NewRun(f.Game, f.Category, model.NewTime(f.Offset), model.NewTime(f.PersonalBest), names, pb, gold, sums)
}

func fromRun(run *model.Run) File {
	f := File{
		Version:      CurrentVersion,
		Game:         run.GameTitle(),
		Category:     run.Category(),
		Offset:       run.Offset().Raw(),
		PersonalBest: run.PersonalBest().Val(),
		Splits:       make([]Split, run.Len()),
	}
	pb, gold, sums := run.PBTimes(), run.GoldTimes(), run.SumTimes()
	for i, name := range run.SplitNames() {
		f.Splits[i] = Split{
			Name:     name,
			PB:       pb[i].Val(),
			Gold:     gold[i].Val(),
			Attempts: sums[i].Attempts,
			Total:    sums[i].Total.Val(),
		}
	}
	return f
}

// New builds an empty run for the given split names.
func New(game, category string, offset uint64, names []string) (*model.Run, error) {
	if len(names) == 0 {
		return nil, ErrNoSplits
	}
	return model.NewRun(game, category, model.NewTime(offset), model.Time{}, names, nil, nil, nil), nil
}
