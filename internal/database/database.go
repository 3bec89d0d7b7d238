// Package database はデータベース接続とドライバ差異の吸収を提供します。
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"

	"planedge/backend/internal/config"
	"planedge/backend/internal/logger"
)

// サポートするドライバ
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// sqliteDriverName は LOWER をUnicode対応に置き換えたSQLiteドライバの登録名です。
const sqliteDriverName = "sqlite3_planedge"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// 組み込みの LOWER は ASCII しか変換しない
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// DB は *sql.DB にドライバ名を持たせたラッパーです。
// リポジトリは "?" プレースホルダでSQLを書き、Rebind で方言に合わせます。
type DB struct {
	*sql.DB
	Driver string
}

// Open は指定ドライバで接続を開き、Ping で疎通を確認します。
func Open(driver, dsn string) (*DB, error) {
	sqlDriver := driver
	switch driver {
	case DriverPostgres:
		sqlDriver = "pgx"
	case DriverSQLite:
		sqlDriver = sqliteDriverName
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite は書き込みが直列なので1接続に固定 (":memory:" も接続ごとに別DBになるため)
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{DB: db, Driver: driver}, nil
}

// InitDB は設定からデータベース接続を初期化します。
func InitDB(cfg *config.Config) (*DB, error) {
	db, err := Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

// Rebind は "?" プレースホルダを PostgreSQL の "$n" 形式に変換します。
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Insert はINSERT文を実行し、採番されたIDを返します。
// PostgreSQL は LastInsertId をサポートしないため RETURNING id を使います。
func (db *DB) Insert(ctx context.Context, query string, args ...any) (int, error) {
	if db.Driver == DriverPostgres {
		var id int
		if err := db.QueryRowContext(ctx, db.Rebind(query)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return int(id), nil
}

// IsUniqueViolation は一意制約違反のエラーかどうかを判定します。
func IsUniqueViolation(err error) bool {
	// MySQLの重複エントリーエラーコード1062
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
