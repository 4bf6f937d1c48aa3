package migration

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// fileScannerImpl implements the FileScanner interface
type fileScannerImpl struct {
	migrationFilePattern *regexp.Regexp
}

// NewFileScanner creates a new FileScanner implementation
func NewFileScanner() FileScanner {
	// {version}_{description}.sql, version numeric
	return &fileScannerImpl{
		migrationFilePattern: regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`),
	}
}

// ScanMigrations reads every *.sql file in dir and returns them ordered by version.
func (s *fileScannerImpl) ScanMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, NewMigrationError("", dir, "read directory", err)
	}

	var migrations []Migration
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if err := s.ValidateFileName(entry.Name()); err != nil {
			return nil, NewMigrationError("", entry.Name(), "validate filename", err)
		}

		filePath := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, NewMigrationError("", filePath, "read file", err)
		}

		migration, err := s.parse(filePath, string(content))
		if err != nil {
			return nil, err
		}

		if other, ok := seen[migration.Version]; ok {
			return nil, NewMigrationError(migration.Version, entry.Name(), "check duplicates",
				fmt.Errorf("%w: version %s found in both %s and %s", ErrDuplicateVersion, migration.Version, other, entry.Name()))
		}
		seen[migration.Version] = entry.Name()
		migrations = append(migrations, migration)
	}

	sortByVersion(migrations)
	return migrations, nil
}

// ValidateFileName checks if migration file follows naming convention
func (s *fileScannerImpl) ValidateFileName(filename string) error {
	matches := s.migrationFilePattern.FindStringSubmatch(filename)
	if len(matches) != 3 {
		return fmt.Errorf("%w: filename '%s' does not match pattern '{version}_{description}.sql'",
			ErrInvalidMigrationFile, filename)
	}
	if _, err := strconv.Atoi(matches[1]); err != nil {
		return fmt.Errorf("%w: version '%s' in filename '%s' is not a valid number",
			ErrInvalidMigrationFile, matches[1], filename)
	}
	return nil
}

func (s *fileScannerImpl) parse(filePath, content string) (Migration, error) {
	matches := s.migrationFilePattern.FindStringSubmatch(path.Base(filePath))
	version := matches[1]

	if strings.TrimSpace(content) == "" {
		return Migration{}, NewMigrationError(version, filePath, "validate content",
			fmt.Errorf("%w: migration file is empty", ErrInvalidMigrationFile))
	}
	if err := validateSQLSyntax(content); err != nil {
		return Migration{}, NewMigrationError(version, filePath, "validate SQL syntax", err)
	}

	description := extractDescription(content)
	if description == "" {
		description = strings.ReplaceAll(matches[2], "_", " ")
	}

	return Migration{
		Version:     version,
		Description: description,
		SQL:         content,
		FilePath:    filePath,
		Checksum:    fmt.Sprintf("%x", sha256.Sum256([]byte(content))),
	}, nil
}

func sortByVersion(migrations []Migration) {
	sort.Slice(migrations, func(i, j int) bool {
		vi, _ := strconv.Atoi(migrations[i].Version)
		vj, _ := strconv.Atoi(migrations[j].Version)
		return vi < vj
	})
}

// validateSQLSyntax catches truncated files: unbalanced parentheses and
// unterminated string literals.
func validateSQLSyntax(sql string) error {
	clean := stripComments(sql)
	if strings.TrimSpace(clean) == "" {
		return fmt.Errorf("%w: no SQL statements found after removing comments", ErrInvalidMigrationFile)
	}

	depth := 0
	inString := false
	for _, ch := range clean {
		switch {
		case ch == '\'':
			inString = !inString
		case inString:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unmatched closing parenthesis", ErrInvalidMigrationFile)
			}
		}
	}
	if inString {
		return fmt.Errorf("%w: unterminated string literal", ErrInvalidMigrationFile)
	}
	if depth != 0 {
		return fmt.Errorf("%w: unmatched opening parenthesis", ErrInvalidMigrationFile)
	}
	return nil
}

func stripComments(sql string) string {
	lines := strings.Split(sql, "\n")
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx != -1 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			clean = append(clean, line)
		}
	}
	return strings.Join(clean, "\n")
}

// extractDescription reads a leading "-- Description: ..." comment.
func extractDescription(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		if strings.HasPrefix(line, "-- Description:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "-- Description:"))
		}
	}
	return ""
}
