package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RecorderTestSuite struct {
	suite.Suite
	tempDir string
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderTestSuite))
}

func (suite *RecorderTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *RecorderTestSuite) countParquetRows(path string) int {
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	err = db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s')", path)).Scan(&count)
	suite.Require().NoError(err)

	return count
}

func (suite *RecorderTestSuite) TestOutputPath() {
	recorder := NewRecorder(suite.tempDir, 0, logger.NewNop())
	suite.Equal(filepath.Join(suite.tempDir, "stream_prices.parquet"), recorder.GetOutputPath())
}

func (suite *RecorderTestSuite) TestWriteBeforeInitialize() {
	recorder := NewRecorder(suite.tempDir, 0, logger.NewNop())

	err := recorder.Write(sampleEvent())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))

	_, err = recorder.Finalize()
	suite.Error(err)
}

func (suite *RecorderTestSuite) TestWriteAndFinalize() {
	recorder := NewRecorder(filepath.Join(suite.tempDir, "nested"), 0, logger.NewNop())
	suite.Require().NoError(recorder.Initialize())
	defer recorder.Close()

	for i := 0; i < 3; i++ {
		event := sampleEvent()
		event.Timestamp += int64(i)
		suite.Require().NoError(recorder.Write(event))
	}

	count, err := recorder.Count()
	suite.Require().NoError(err)
	suite.Equal(3, count)

	path, err := recorder.Finalize()
	suite.Require().NoError(err)
	suite.Equal(recorder.GetOutputPath(), path)

	_, statErr := os.Stat(path)
	suite.Require().NoError(statErr)
	suite.Equal(3, suite.countParquetRows(path))
}

func (suite *RecorderTestSuite) TestExportEvery() {
	recorder := NewRecorder(suite.tempDir, 2, logger.NewNop())
	suite.Require().NoError(recorder.Initialize())
	defer recorder.Close()

	suite.Require().NoError(recorder.Write(sampleEvent()))

	_, statErr := os.Stat(recorder.GetOutputPath())
	suite.True(os.IsNotExist(statErr))

	suite.Require().NoError(recorder.Write(sampleEvent()))
	suite.Equal(2, suite.countParquetRows(recorder.GetOutputPath()))
}

func (suite *RecorderTestSuite) TestAppendsAcrossRuns() {
	first := NewRecorder(suite.tempDir, 0, logger.NewNop())
	suite.Require().NoError(first.Initialize())
	suite.Require().NoError(first.Write(sampleEvent()))
	_, err := first.Finalize()
	suite.Require().NoError(err)
	suite.Require().NoError(first.Close())

	second := NewRecorder(suite.tempDir, 0, logger.NewNop())
	suite.Require().NoError(second.Initialize())
	defer second.Close()

	suite.Require().NoError(second.Write(types.PriceEvent{
		Address: "So1", Chain: "solana", PriceUSD: "150.25", Timestamp: 1714564900, PriceTimestamp: 1714564899,
	}))

	path, err := second.Finalize()
	suite.Require().NoError(err)
	suite.Equal(2, suite.countParquetRows(path))
}

func (suite *RecorderTestSuite) TestFinalizeWithoutWritesCreatesNothing() {
	dir := filepath.Join(suite.tempDir, "unused")
	recorder := NewRecorder(dir, 0, logger.NewNop())
	suite.Require().NoError(recorder.Initialize())
	defer recorder.Close()

	path, err := recorder.Finalize()
	suite.Require().NoError(err)
	suite.Equal(recorder.GetOutputPath(), path)

	_, statErr := os.Stat(dir)
	suite.True(os.IsNotExist(statErr))
}

func (suite *RecorderTestSuite) TestFinalizeAfterPeriodicExport() {
	recorder := NewRecorder(suite.tempDir, 1, logger.NewNop())
	suite.Require().NoError(recorder.Initialize())
	defer recorder.Close()

	suite.Require().NoError(recorder.Write(sampleEvent()))

	path, err := recorder.Finalize()
	suite.Require().NoError(err)
	suite.Equal(1, suite.countParquetRows(path))
}

func (suite *RecorderTestSuite) TestCloseIsIdempotent() {
	recorder := NewRecorder(suite.tempDir, 0, logger.NewNop())
	suite.Require().NoError(recorder.Initialize())
	suite.NoError(recorder.Close())
	suite.NoError(recorder.Close())
}
