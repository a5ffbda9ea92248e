package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/tokenstream/internal/config"
	"github.com/rxtech-lab/tokenstream/internal/watchlist"
	"github.com/stretchr/testify/suite"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *GenerateCmdTestSuite) TestSchemaGeneration() {
	dir := filepath.Join(suite.tempDir, "config")
	suite.Require().NoError(generate(dir))

	content, err := os.ReadFile(filepath.Join(dir, watchlistSchemaName))
	suite.Require().NoError(err)

	expected, err := watchlist.Schema()
	suite.Require().NoError(err)
	suite.Equal(expected, string(content))
}

func (suite *GenerateCmdTestSuite) TestSampleWatchlistIsValid() {
	suite.Require().NoError(generate(suite.tempDir))

	targets, err := watchlist.Load(filepath.Join(suite.tempDir, sampleWatchlistName))
	suite.Require().NoError(err)
	suite.Len(targets, 2)
	suite.Equal("ethereum", targets[0].Chain)
	suite.Equal("solana", targets[1].Chain)
}

func (suite *GenerateCmdTestSuite) TestSampleConfigLoadsAsDefaults() {
	suite.Require().NoError(generate(suite.tempDir))

	cfg, err := config.Load(filepath.Join(suite.tempDir, sampleConfigName))
	suite.Require().NoError(err)
	suite.Equal(config.Default(), cfg)
}

func (suite *GenerateCmdTestSuite) TestSamplesNotOverwritten() {
	configPath := filepath.Join(suite.tempDir, sampleConfigName)
	watchlistPath := filepath.Join(suite.tempDir, sampleWatchlistName)

	suite.Require().NoError(os.WriteFile(configPath, []byte("log_level: debug\n"), 0o600))
	suite.Require().NoError(os.WriteFile(watchlistPath, []byte("[]"), 0o600))

	suite.Require().NoError(generate(suite.tempDir))

	content, err := os.ReadFile(configPath)
	suite.Require().NoError(err)
	suite.Equal("log_level: debug\n", string(content))

	content, err = os.ReadFile(watchlistPath)
	suite.Require().NoError(err)
	suite.Equal("[]", string(content))
}

func (suite *GenerateCmdTestSuite) TestInvalidDirectory() {
	file := filepath.Join(suite.tempDir, "file")
	suite.Require().NoError(os.WriteFile(file, []byte("x"), 0o600))

	err := generate(filepath.Join(file, "config"))
	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to")
}
