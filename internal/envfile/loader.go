package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jenian/envpeek/internal/logger"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the conventional dotenv file name looked up in the working directory
const DefaultEnvFile = ".env"

// Vars holds merged values from env files along with the file each key came from
type Vars struct {
	Values  map[string]string
	Sources map[string]string
}

// Result describes what Apply wrote into the environment namespace
type Result struct {
	Applied []string          // Keys written into the namespace
	Skipped []string          // Keys left alone because they were already set
	Sources map[string]string // Key -> env file path
}

// Loader handles loading env files and merging them into an environment namespace
type Loader struct {
	envFiles      []string
	override      bool
	searchParents bool
	env           Env
	log           *logger.Logger
}

// NewLoader creates a new env file loader
func NewLoader() *Loader {
	return &Loader{
		envFiles: []string{DefaultEnvFile},
		env:      ProcessEnv{},
		log:      logger.Nop(),
	}
}

// SetEnvFiles sets the list of env files to load
func (l *Loader) SetEnvFiles(files []string) {
	l.envFiles = files
}

// SetOverride controls whether file values replace variables that are already set
func (l *Loader) SetOverride(enabled bool) {
	l.override = enabled
}

// SetSearchParents makes relative env files resolve against the closest parent
// directory that contains them
func (l *Loader) SetSearchParents(enabled bool) {
	l.searchParents = enabled
}

// SetEnv replaces the namespace Apply writes into
func (l *Loader) SetEnv(env Env) {
	l.env = env
}

// Env returns the namespace the loader writes into
func (l *Loader) Env() Env {
	return l.env
}

// SetLogger sets the logger used for warnings about unreadable files
func (l *Loader) SetLogger(log *logger.Logger) {
	l.log = log
}

// lineError is a dotenv line that couldn't be parsed
type lineError struct {
	Line int
	Err  error
}

// parseEnvFile parses a single dotenv file.
// A file that doesn't exist yields an empty map, not an error.
// When the file as a whole doesn't parse, it is parsed again line by line
// and only the lines that fail are dropped.
func parseEnvFile(path string) (map[string]string, []lineError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil, nil
		}
		return nil, nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(string(data))
	if err == nil {
		return vars, nil, nil
	}
	vars, badLines := parseLines(string(data))
	return vars, badLines, nil
}

// parseLines parses dotenv content one line at a time. Each line is parsed
// together with the lines accepted before it, so ${VAR} references to
// earlier keys still expand.
func parseLines(content string) (map[string]string, []lineError) {
	var (
		accepted strings.Builder
		bad      []lineError
	)
	vars := map[string]string{}

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		parsed, err := godotenv.Unmarshal(accepted.String() + line)
		if err != nil {
			bad = append(bad, lineError{Line: i + 1, Err: err})
			continue
		}
		accepted.WriteString(line)
		vars = parsed
	}

	return vars, bad
}

// resolve returns the path for envFile relative to rootPath, walking up
// through parent directories when searchParents is set.
// The second return value is false when no such file exists.
func (l *Loader) resolve(rootPath, envFile string) (string, bool) {
	if filepath.IsAbs(envFile) {
		return envFile, fileExists(envFile)
	}

	dir := rootPath
	for {
		path := filepath.Join(dir, envFile)
		if fileExists(path) {
			return path, true
		}
		if !l.searchParents {
			return path, false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join(rootPath, envFile), false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findEnvFiles returns the configured env files that exist, in load order
func (l *Loader) findEnvFiles(rootPath string) []string {
	var files []string
	seen := make(map[string]bool)

	for _, envFile := range l.envFiles {
		path, ok := l.resolve(rootPath, envFile)
		if !ok {
			l.log.Debug().Str("file", path).Msg("env file not found, skipping")
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}

	return files
}

// Load parses all configured env files found under rootPath and merges them.
// Later files override earlier ones.
func (l *Loader) Load(rootPath string) (*Vars, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	vars := &Vars{
		Values:  make(map[string]string),
		Sources: make(map[string]string),
	}

	for _, path := range l.findEnvFiles(absRoot) {
		fileVars, badLines, err := parseEnvFile(path)
		if err != nil {
			// Warn but continue with other files
			l.log.Warn().Err(err).Str("file", path).Msg("skipping unreadable env file")
			continue
		}
		for _, bad := range badLines {
			l.log.Warn().Err(bad.Err).Str("file", path).Int("line", bad.Line).Msg("skipping malformed line")
		}

		l.log.Debug().Str("file", path).Int("keys", len(fileVars)).Msg("loaded env file")
		for k, v := range fileVars {
			vars.Values[k] = v
			vars.Sources[k] = path
		}
	}

	return vars, nil
}

// Apply loads env files under rootPath and writes their values into the
// loader's namespace. Variables that are already set are kept unless
// override is enabled.
func (l *Loader) Apply(rootPath string) (*Result, error) {
	vars, err := l.Load(rootPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Sources: make(map[string]string),
	}

	keys := make([]string, 0, len(vars.Values))
	for k := range vars.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, exists := l.env.LookupEnv(key); exists && !l.override {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		if err := l.env.Setenv(key, vars.Values[key]); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to set variable")
			continue
		}
		result.Applied = append(result.Applied, key)
		result.Sources[key] = vars.Sources[key]
	}

	return result, nil
}
