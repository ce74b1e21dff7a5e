package admin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobly-api/jobly/internal/config"
	"github.com/jobly-api/jobly/internal/journal"
)

// Directory manages the .jobly/ directory structure
type Directory struct {
	rootDir string // .jobly/
}

// NewDirectory creates a new directory manager
func NewDirectory(workDir string) *Directory {
	return &Directory{
		rootDir: filepath.Join(workDir, ".jobly"),
	}
}

// Initialize creates the .jobly/ directory structure
func (d *Directory) Initialize() error {
	if err := os.MkdirAll(d.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create .jobly directory: %w", err)
	}

	journalDir := d.GetPaths().Journal
	if err := os.MkdirAll(journalDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", journalDir, err)
	}

	return d.createGitignore()
}

// createGitignore creates .jobly/.gitignore
func (d *Directory) createGitignore() error {
	gitignorePath := filepath.Join(d.rootDir, ".gitignore")
	gitignoreContent := `# jobly local files
# Journal: local audit trail of create/update/delete
journal/
`

	return os.WriteFile(gitignorePath, []byte(gitignoreContent), 0644)
}

// GetPaths returns all directory paths
func (d *Directory) GetPaths() DirectoryPaths {
	return DirectoryPaths{
		Root:    d.rootDir,
		Journal: filepath.Join(d.rootDir, "journal"),
	}
}

// DirectoryPaths holds all important paths
type DirectoryPaths struct {
	Root    string
	Journal string
}

// ManagerFactory creates the managers that live in a jobly project
type ManagerFactory struct {
	workDir string
	dir     *Directory
}

// NewManagerFactory creates a new manager factory
func NewManagerFactory(workDir string) *ManagerFactory {
	return &ManagerFactory{
		workDir: workDir,
		dir:     NewDirectory(workDir),
	}
}

// Initialize initializes the entire .jobly/ structure
func (mf *ManagerFactory) Initialize() error {
	return mf.dir.Initialize()
}

// Paths returns the project's directory paths
func (mf *ManagerFactory) Paths() DirectoryPaths {
	return mf.dir.GetPaths()
}

// CreateConfigLoader creates a config loader
func (mf *ManagerFactory) CreateConfigLoader() *config.Loader {
	return config.NewLoader(mf.workDir)
}

// CreateJournalLogger creates a journal logger in cfg's journal directory,
// or in .jobly/journal when cfg is nil.
func (mf *ManagerFactory) CreateJournalLogger(cfg *config.Config) (*journal.Logger, error) {
	dir := mf.dir.GetPaths().Journal
	if cfg != nil && cfg.Journal.Dir != "" {
		dir = cfg.Journal.Dir
	}
	return journal.NewLogger(dir)
}

// Status describes the project directory
func (mf *ManagerFactory) Status() (string, error) {
	paths := mf.dir.GetPaths()

	if _, err := os.Stat(paths.Root); err != nil {
		if os.IsNotExist(err) {
			return "not_initialized", nil
		}
		return "", err
	}

	var b strings.Builder
	b.WriteString("initialized\n")
	fmt.Fprintf(&b, "  Root: %s\n", paths.Root)
	fmt.Fprintf(&b, "  Journal: %s\n", paths.Journal)

	loader := mf.CreateConfigLoader()
	if _, err := os.Stat(loader.Path()); err == nil {
		fmt.Fprintf(&b, "  Config: %s\n", loader.Path())
	} else {
		b.WriteString("  Config: missing\n")
	}

	return b.String(), nil
}
