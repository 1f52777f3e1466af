package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// applyEnvironment overrides the database credentials with the values of
// TRIGGER_DB_USER and TRIGGER_DB_PASS, read from envFile when it exists.
func applyEnvironment(config *trigger.Configuration, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}
	if user := os.Getenv("TRIGGER_DB_USER"); user != "" {
		config.User = user
	}
	if pass := os.Getenv("TRIGGER_DB_PASS"); pass != "" {
		config.Passwd = pass
	}
	return nil
}

func printConfiguration(config trigger.Configuration, logger trigger.Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Seed: %d", config.Seed), "config")
	logger.Info(fmt.Sprintf("Max particles: %d", config.MaxParticles), "config")
	logger.Info(fmt.Sprintf("Max energy: %.2f", config.MaxEnergy), "config")
	logger.Info(fmt.Sprintf("Threshold jet high: %.2f", config.ThresholdJetHigh), "config")
	logger.Info(fmt.Sprintf("Threshold jet low: %.2f", config.ThresholdJetLow), "config")
	logger.Info(fmt.Sprintf("Threshold gamma high: %.2f", config.ThresholdGammaHigh), "config")
	logger.Info(fmt.Sprintf("Threshold gamma low: %.2f", config.ThresholdGammaLow), "config")
	logger.Info(fmt.Sprintf("Bit configuration: %s", config.BitConfig), "config")
	logger.Info(fmt.Sprintf("PHOS acceptance: %t", config.PHOSAcceptance), "config")
	logger.Info(fmt.Sprintf("PHOS region: %+v", config.PHOSRegion()), "config")
	logger.Info(fmt.Sprintf("Bad channels EMCAL: %d", len(config.BadChannelsEMCAL)), "config")
	logger.Info(fmt.Sprintf("Bad channels DCAL-PHOS: %d", len(config.BadChannelsDCALPHOS)), "config")
	logger.Info(fmt.Sprintf("Use DB: %t", config.UseDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
}
