package sqlite

import (
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// Migrate brings the schema of conn up to date by running, in lexical order,
// the *.sql scripts of fsys that haven't been run yet. The number of scripts
// already run is kept in the user_version pragma.
func Migrate(conn *sqlite.Conn, fsys fs.FS) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	version, err := userVersion(conn)
	if err != nil {
		return err
	}

	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list scripts: %w", err)
	}
	if version >= len(scripts) {
		// Up to date.
		return nil
	}

	slices.Sort(scripts)
	for _, script := range scripts[version:] {
		buf, err := fs.ReadFile(fsys, script)
		if err != nil {
			return fmt.Errorf("read %s: %w", script, err)
		}
		if err := execScript(conn, script, string(buf)); err != nil {
			return err
		}
	}

	pragma := "pragma user_version=" + strconv.Itoa(len(scripts))
	if err := sqlitex.ExecTransient(conn, pragma, nil); err != nil {
		return fmt.Errorf("set version: %w", err)
	}
	return nil
}

func userVersion(conn *sqlite.Conn) (int, error) {
	var version int
	err := sqlitex.ExecTransient(conn, "pragma user_version", func(stmt *sqlite.Stmt) error {
		version = stmt.ColumnInt(0)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// execScript runs every statement of a script, one after the other.
func execScript(conn *sqlite.Conn, name, queries string) error {
	queries = strings.TrimSpace(queries)
	for i := 0; queries != ""; i++ {
		stmt, trailingBytes, err := conn.PrepareTransient(queries)
		if err != nil {
			return fmt.Errorf("prepare %s, stmt %d: %w", name, i, err)
		}
		queries = strings.TrimSpace(queries[len(queries)-trailingBytes:])
		_, err = stmt.Step()
		stmt.Finalize()
		if err != nil {
			return fmt.Errorf("execute %s, stmt %d: %w", name, i, err)
		}
	}
	return nil
}
