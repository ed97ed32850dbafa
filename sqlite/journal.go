package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bsid.es/despertador"
	"bsid.es/despertador/sqlite/migration"
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// Entry is a recorded notice.
type Entry struct {
	ID int64
	despertador.Notice
}

// Journal keeps a record of alarm activity in a SQLite database. It is only
// a history; alarms are never restored from it.
type Journal struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

var _ despertador.Journal = (*Journal)(nil)

// OpenJournal opens the database at path, creating and migrating it if
// needed.
func OpenJournal(path string) (*Journal, error) {
	conn, err := sqlite.OpenConn(path, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := Migrate(conn, migration.Scripts); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Journal{conn: conn}, nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.conn.Close()
}

func (j *Journal) Record(ctx context.Context, n despertador.Notice) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	defer j.conn.SetInterrupt(j.conn.SetInterrupt(ctx.Done()))

	var target any
	if !n.Target.IsZero() {
		target = n.Target.UnixNano()
	}
	err := sqlitex.Exec(j.conn,
		"insert into notice (session, kind, at, target, tone) values (?, ?, ?, ?, ?)",
		nil,
		n.Session, string(n.Kind), n.At.UnixNano(), target, n.Tone,
	)
	if err != nil {
		return fmt.Errorf("record %s notice: %w", n.Kind, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// means no limit.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	defer j.conn.SetInterrupt(j.conn.SetInterrupt(ctx.Done()))

	if limit <= 0 {
		limit = -1
	}
	var entries []Entry
	err := sqlitex.Exec(j.conn,
		"select id, session, kind, at, target, tone from notice order by at desc, id desc limit ?",
		func(stmt *sqlite.Stmt) error {
			e := Entry{
				ID: stmt.ColumnInt64(0),
				Notice: despertador.Notice{
					Session: stmt.ColumnText(1),
					Kind:    despertador.NoticeKind(stmt.ColumnText(2)),
					At:      time.Unix(0, stmt.ColumnInt64(3)),
					Tone:    stmt.ColumnText(5),
				},
			}
			if stmt.ColumnType(4) != sqlite.SQLITE_NULL {
				e.Target = time.Unix(0, stmt.ColumnInt64(4))
			}
			entries = append(entries, e)
			return nil
		},
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return entries, nil
}
