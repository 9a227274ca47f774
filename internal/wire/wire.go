// Package wire provides dependency injection for the sksn application.
// Services are bound to one project root.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/example/sksn/internal/adapters/filesystem"
	"github.com/example/sksn/internal/adapters/pkgmgr"
	"github.com/example/sksn/internal/adapters/sqlite"
	"github.com/example/sksn/internal/app"
	"github.com/example/sksn/internal/db"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/scaffold"
	"github.com/example/sksn/internal/ui"
)

// Project holds the services of one project.
type Project struct {
	Root     string
	Console  *ui.Console
	Generate primary.GenerateService
	Setup    primary.ProjectService
	History  primary.HistoryService

	conn *sql.DB
}

// Open wires the services for the project at root. manager names the
// package manager ("npm" when empty); console output goes to out.
func Open(root, manager string, out io.Writer) (*Project, error) {
	files, err := filesystem.NewFileStore(root)
	if err != nil {
		return nil, err
	}

	pm, err := pkgmgr.New(manager, files.Root())
	if err != nil {
		return nil, err
	}
	pm.WithOutput(out, os.Stderr)

	conn, err := db.Open(files.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	journal := sqlite.NewJournalRepository(conn)

	console := ui.NewConsole(out)
	generator := scaffold.NewGenerator()
	runner := app.NewRunner(files, pm, journal, console)

	return &Project{
		Root:     files.Root(),
		Console:  console,
		Generate: app.NewGenerateService(generator, runner),
		Setup:    app.NewProjectService(generator, runner),
		History:  app.NewHistoryService(journal),
		conn:     conn,
	}, nil
}

// Close releases the history database.
func (p *Project) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
