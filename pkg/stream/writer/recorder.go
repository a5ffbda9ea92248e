package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"go.uber.org/zap"
)

// RecordingFileName is the parquet file a Recorder appends to inside its directory.
const RecordingFileName = "stream_prices.parquet"

// DefaultExportEvery is how many writes a Recorder buffers before re-exporting the parquet file.
const DefaultExportEvery = 50

// Recorder persists price events to a parquet file through an in-memory DuckDB table.
// Rows already present in the file are loaded on Initialize so recordings
// accumulate across runs.
type Recorder struct {
	db          *sql.DB
	sq          squirrel.StatementBuilderType
	outputPath  string
	exportEvery int
	pending     int
	log         *logger.Logger
	mu          sync.Mutex
}

// NewRecorder creates a Recorder writing to {dataDir}/stream_prices.parquet.
// exportEvery <= 0 selects DefaultExportEvery.
func NewRecorder(dataDir string, exportEvery int, log *logger.Logger) *Recorder {
	if exportEvery <= 0 {
		exportEvery = DefaultExportEvery
	}

	return &Recorder{
		db:          nil,
		sq:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		outputPath:  filepath.Join(dataDir, RecordingFileName),
		exportEvery: exportEvery,
		pending:     0,
		log:         log.Named("recorder"),
		mu:          sync.Mutex{},
	}
}

// Initialize opens the DuckDB connection and loads any existing recording.
// Nothing is created on disk until the first export.
func (r *Recorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to open DuckDB connection", err)
	}

	r.db = db

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS stream_prices (
			id TEXT,
			chain TEXT,
			address TEXT,
			price_usd TEXT,
			timestamp BIGINT,
			price_timestamp BIGINT,
			time TIMESTAMP
		)
	`)
	if err != nil {
		r.db.Close()
		r.db = nil

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create table", err)
	}

	if _, err := os.Stat(r.outputPath); err == nil {
		_, err = r.db.Exec(fmt.Sprintf(`
			INSERT INTO stream_prices
			SELECT * FROM read_parquet('%s')
		`, quotePath(r.outputPath)))
		if err != nil {
			// an unreadable recording is replaced on the next export
			r.log.Warn("Failed to load existing recording",
				zap.String("path", r.outputPath),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Write implements EventWriter.
func (r *Recorder) Write(event types.PriceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeWriteFailed, "recorder not initialized")
	}

	_, err := r.sq.
		Insert("stream_prices").
		Columns("id", "chain", "address", "price_usd", "timestamp", "price_timestamp", "time").
		Values(
			uuid.New().String(), event.Chain, event.Address, event.PriceUSD,
			event.Timestamp, event.PriceTimestamp, event.Time(),
		).
		RunWith(r.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to record event", err)
	}

	r.pending++
	if r.pending >= r.exportEvery {
		return r.export()
	}

	return nil
}

// Count returns the number of recorded rows, including rows loaded from an earlier run.
func (r *Recorder) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return 0, errors.New(errors.ErrCodeWriteFailed, "recorder not initialized")
	}

	var count int

	err := r.sq.Select("COUNT(*)").From("stream_prices").RunWith(r.db).QueryRow().Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeWriteFailed, "failed to count recorded events", err)
	}

	return count, nil
}

// Finalize exports rows written since the last export and returns the output path.
// A recorder that received no writes leaves the filesystem untouched.
func (r *Recorder) Finalize() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "recorder not initialized")
	}

	if r.pending == 0 {
		return r.outputPath, nil
	}

	if err := r.export(); err != nil {
		return "", err
	}

	return r.outputPath, nil
}

// GetOutputPath returns the parquet file path.
func (r *Recorder) GetOutputPath() string {
	return r.outputPath
}

// Close releases database resources without exporting.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}

		r.db = nil
	}

	return nil
}

func (r *Recorder) export() error {
	if err := os.MkdirAll(filepath.Dir(r.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create recording directory", err)
	}

	_, err := r.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM stream_prices ORDER BY timestamp ASC)
		TO '%s' (FORMAT PARQUET)
	`, quotePath(r.outputPath)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to export to parquet", err)
	}

	r.pending = 0

	return nil
}

func quotePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

var _ EventWriter = (*Recorder)(nil)
