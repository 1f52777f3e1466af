package trigger

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calibrationSchema = `
CREATE TABLE TriggerThresholds (
	MinRun INTEGER, MaxRun INTEGER,
	JetHigh REAL, JetLow REAL, GammaHigh REAL, GammaLow REAL,
	BitConfig TEXT
);
CREATE TABLE TriggerBadChannels (
	MinRun INTEGER, MaxRun INTEGER,
	Region TEXT, FastORCol INTEGER, FastORRow INTEGER
);
INSERT INTO TriggerThresholds VALUES (1, 1000, 200, 100, 20, 10, 'old');
INSERT INTO TriggerThresholds VALUES (500, 2000, 150, 80, 15, 7, 'new');
INSERT INTO TriggerBadChannels VALUES (1, 2000, 'EMCAL', 10, 12);
INSERT INTO TriggerBadChannels VALUES (1, 2000, 'DCAL-PHOS', 3, 4);
INSERT INTO TriggerBadChannels VALUES (1500, 2000, 'EMCAL', 0, 0);
`

func newCalibrationDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := ConnectToDatabase("sqlite", "", "", "", ":memory:")
	require.NoError(t, err)
	// every connection opens its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(calibrationSchema)
	require.NoError(t, err)
	return db
}

func TestLoadCalibration(t *testing.T) {
	db := newCalibrationDB(t)

	calibration, err := LoadCalibration(db, 300)
	require.NoError(t, err)
	assert.Equal(t, 200.0, calibration.Setup.JetHigh)
	assert.Equal(t, 10.0, calibration.Setup.GammaLow)
	assert.Equal(t, BitConfigOld, calibration.BitConfig)
	assert.Equal(t, TriggerBitConfigOld(), calibration.Setup.BitConfig)
	assert.Equal(t, []ChannelPosition{{Col: 10, Row: 12}}, calibration.BadChannelsEMCAL)
	assert.Equal(t, []ChannelPosition{{Col: 3, Row: 4}}, calibration.BadChannelsDCALPHOS)
}

func TestLoadCalibrationPrefersLatestRange(t *testing.T) {
	db := newCalibrationDB(t)

	calibration, err := LoadCalibration(db, 1600)
	require.NoError(t, err)
	assert.Equal(t, 150.0, calibration.Setup.JetHigh)
	assert.Equal(t, BitConfigNew, calibration.BitConfig)
	assert.Len(t, calibration.BadChannelsEMCAL, 2)

	config := DefaultConfiguration()
	calibration.ApplyTo(&config)
	assert.Equal(t, 150.0, config.ThresholdJetHigh)
	assert.Equal(t, 7.0, config.ThresholdGammaLow)
	assert.Equal(t, BitConfigNew, config.BitConfig)
	assert.Equal(t, [][2]int{{0, 0}, {10, 12}}, config.BadChannelsEMCAL)

	maker, err := NewMakerFromConfiguration(config)
	require.NoError(t, err)
	assert.True(t, maker.IsBadChannel(RegionEMCAL, 10, 12))
	assert.True(t, maker.IsBadChannel(RegionDCALPHOS, 3, 4))
}

func TestLoadCalibrationMissingRun(t *testing.T) {
	db := newCalibrationDB(t)

	_, err := LoadCalibration(db, 5000)
	assert.ErrorContains(t, err, "no trigger thresholds for run 5000")
}

func TestParseRegion(t *testing.T) {
	for name, want := range map[string]Region{
		"EMCAL":     RegionEMCAL,
		"DCAL-PHOS": RegionDCALPHOS,
		"DCAL":      RegionDCALPHOS,
		"DCALPHOS":  RegionDCALPHOS,
	} {
		region, err := ParseRegion(name)
		require.NoError(t, err)
		assert.Equal(t, want, region)
	}
	_, err := ParseRegion("PHOS")
	assert.Error(t, err)
}

func TestConnectToDatabaseUnknownDriver(t *testing.T) {
	_, err := ConnectToDatabase("postgres", "", "", "", "")
	assert.Error(t, err)
}
