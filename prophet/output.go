package prophet

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	outputPrefix = "output-"
	outputSuffix = "-DBSCAN"
	outputExt    = ".csv"
	lockPrefix   = "profitprophet-"
	lockExt      = ".lock"

	// maxOutputVersions bounds the search for a free output name.
	maxOutputVersions = 10000
)

// OutputFileName returns the base name of the output file for the given
// weights: output-<field>=<weight>-...-DBSCAN.csv.
func OutputFileName(fields []FieldWeight) string {
	var b strings.Builder
	b.WriteString(outputPrefix)
	for _, f := range fields {
		b.WriteString(safeName(f.Name))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(f.Weight, 'f', -1, 64))
		b.WriteByte('-')
	}
	b.WriteString(strings.TrimPrefix(outputSuffix, "-"))
	b.WriteString(outputExt)
	return b.String()
}

func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, name)
}

// versionedName inserts "-v<n>" before the extension; version 0 is base itself.
func versionedName(base string, version int) string {
	if version == 0 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-v%d%s", strings.TrimSuffix(base, ext), version, ext)
}

// outputLockPath returns the lock file guarding dir. It lives in the system
// temp directory so the output directory only ever holds output files.
func outputLockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), lockPrefix+hex.EncodeToString(sum[:8])+lockExt), nil
}

// CreateOutputFile creates the first unused versioned name of base in dir.
// The directory lock keeps concurrent writers from picking the same name.
func CreateOutputFile(dir, base string) (*os.File, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	lockPath, err := outputLockPath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock output dir: %w", err)
	}
	defer lock.Unlock()

	for v := 0; v < maxOutputVersions; v++ {
		path := filepath.Join(dir, versionedName(base, v))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create %s: %w", filepath.Base(path), err)
		}
	}
	return nil, fmt.Errorf("no free output name for %s", base)
}

// WriteOutput writes t to a new file in dir named after fields and returns its path.
func WriteOutput(dir string, fields []FieldWeight, t *Table) (string, error) {
	f, err := CreateOutputFile(dir, OutputFileName(fields))
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := EncodeTable(f, t); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return path, nil
}
