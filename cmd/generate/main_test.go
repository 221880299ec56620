package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/stretchr/testify/suite"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir    string
	workingDir string
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	workingDir, err := os.Getwd()
	suite.Require().NoError(err)
	suite.workingDir = workingDir

	suite.tempDir = suite.T().TempDir()
	suite.Require().NoError(os.Chdir(suite.tempDir))
}

func (suite *GenerateCmdTestSuite) TearDownTest() {
	suite.Require().NoError(os.Chdir(suite.workingDir))
}

func (suite *GenerateCmdTestSuite) TestSchemaGeneration() {
	main()

	configDir := filepath.Join(suite.tempDir, "config")
	suite.True(dirExists(configDir), "Config directory should exist")

	schemaPath := filepath.Join(configDir, config.SchemaFileName)
	suite.True(fileExists(schemaPath), "Schema file should exist")

	schemaContent, err := os.ReadFile(schemaPath)
	suite.Require().NoError(err)
	suite.Contains(string(schemaContent), "short_window")
}

func (suite *GenerateCmdTestSuite) TestSampleConfigGeneration() {
	main()

	sampleConfigPath := filepath.Join(suite.tempDir, "config", config.SampleFileName)
	suite.True(fileExists(sampleConfigPath), "Sample config file should exist")

	sampleConfigContent, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Contains(string(sampleConfigContent), "# yaml-language-server: $schema="+config.SchemaFileName)
	suite.Contains(string(sampleConfigContent), "long_window: 200")
}

func (suite *GenerateCmdTestSuite) TestSampleConfigNotOverwritten() {
	main()

	sampleConfigPath := filepath.Join(suite.tempDir, "config", config.SampleFileName)
	suite.Require().NoError(os.WriteFile(sampleConfigPath, []byte("loader: duckdb\n"), 0o600))

	main()

	newContent, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Equal("loader: duckdb\n", string(newContent), "Sample config should not be overwritten")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && !info.IsDir()
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}
