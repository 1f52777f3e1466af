package trigger

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ConnectToDatabase opens the calibration database. For the sqlite driver
// dbname is the path of the database file.
func ConnectToDatabase(driver string, user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	switch driver {
	case "mysql":
		port := "3306"
		dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
		return sqlx.Connect("mysql", dbURI)
	case "sqlite":
		return sqlx.Connect("sqlite", dbname)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type ThresholdEntry struct {
	JetHigh   float64 `db:"JetHigh"`
	JetLow    float64 `db:"JetLow"`
	GammaHigh float64 `db:"GammaHigh"`
	GammaLow  float64 `db:"GammaLow"`
	BitConfig string  `db:"BitConfig"`
}

type BadChannelEntry struct {
	Region string `db:"Region"`
	Col    int    `db:"FastORCol"`
	Row    int    `db:"FastORRow"`
}

// Calibration is the trigger configuration valid for one run.
type Calibration struct {
	Setup               TriggerSetup
	BitConfig           BitConfigName
	BadChannelsEMCAL    []ChannelPosition
	BadChannelsDCALPHOS []ChannelPosition
}

// ApplyTo overrides thresholds, bit configuration and bad channels of config.
func (c Calibration) ApplyTo(config *Configuration) {
	config.ThresholdJetHigh = c.Setup.JetHigh
	config.ThresholdJetLow = c.Setup.JetLow
	config.ThresholdGammaHigh = c.Setup.GammaHigh
	config.ThresholdGammaLow = c.Setup.GammaLow
	config.BitConfig = c.BitConfig
	config.BadChannelsEMCAL = toPairs(c.BadChannelsEMCAL)
	config.BadChannelsDCALPHOS = toPairs(c.BadChannelsDCALPHOS)
}

func toPairs(channels []ChannelPosition) [][2]int {
	pairs := make([][2]int, len(channels))
	for i, channel := range channels {
		pairs[i] = [2]int{channel.Col, channel.Row}
	}
	return pairs
}

func ParseRegion(name string) (Region, error) {
	switch name {
	case "EMCAL":
		return RegionEMCAL, nil
	case "DCAL-PHOS", "DCAL", "DCALPHOS":
		return RegionDCALPHOS, nil
	default:
		return RegionUndefined, fmt.Errorf("unknown detector region %q", name)
	}
}

// LoadCalibration reads thresholds and bad channels valid for runNumber.
func LoadCalibration(db *sqlx.DB, runNumber int) (Calibration, error) {
	var calibration Calibration
	thresholds, err := getThresholdsFromDB(db, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting trigger thresholds from database: %w", err)
		logger.Error(errMessage.Error())
		return calibration, errMessage
	}
	bitConfigName := BitConfigName(thresholds.BitConfig)
	bits, err := bitConfigName.TriggerBitConfig()
	if err != nil {
		return calibration, err
	}
	calibration.Setup = NewTriggerSetup()
	calibration.Setup.SetThresholds(thresholds.JetHigh, thresholds.JetLow, thresholds.GammaHigh, thresholds.GammaLow)
	calibration.Setup.SetTriggerBitConfig(bits)
	calibration.BitConfig = bitConfigName

	badChannels, err := getBadChannelsFromDB(db, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting bad channels from database: %w", err)
		logger.Error(errMessage.Error())
		return calibration, errMessage
	}
	for _, entry := range badChannels {
		region, err := ParseRegion(entry.Region)
		if err != nil {
			return calibration, err
		}
		position := ChannelPosition{Col: entry.Col, Row: entry.Row}
		switch region {
		case RegionEMCAL:
			calibration.BadChannelsEMCAL = append(calibration.BadChannelsEMCAL, position)
		case RegionDCALPHOS:
			calibration.BadChannelsDCALPHOS = append(calibration.BadChannelsDCALPHOS, position)
		}
	}
	return calibration, nil
}

func getThresholdsFromDB(db *sqlx.DB, runNumber int) (ThresholdEntry, error) {
	query := "SELECT JetHigh, JetLow, GammaHigh, GammaLow, BitConfig FROM TriggerThresholds " +
		"WHERE MinRun <= ? and MaxRun >= ? ORDER BY MinRun DESC LIMIT 1"
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading trigger thresholds for run %d from database", runNumber)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	var entry ThresholdEntry
	err := db.Get(&entry, query, runNumber, runNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, fmt.Errorf("no trigger thresholds for run %d", runNumber)
	}
	if err != nil {
		return entry, fmt.Errorf("error querying database: %w", err)
	}
	return entry, nil
}

func getBadChannelsFromDB(db *sqlx.DB, runNumber int) ([]BadChannelEntry, error) {
	query := "SELECT Region, FastORCol, FastORRow FROM TriggerBadChannels " +
		"WHERE MinRun <= ? and MaxRun >= ? ORDER BY Region, FastORCol, FastORRow"
	if configuration.Verbosity > 0 {
		logger.Info("Bad trigger channels read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, runNumber, runNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	entries := make([]BadChannelEntry, 0)
	for rows.Next() {
		result := BadChannelEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		entries = append(entries, result)
	}
	return entries, rows.Err()
}
