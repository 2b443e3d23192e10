package clinictime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToClinicIdempotent(t *testing.T) {
	utc := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)

	once := ToClinic(utc)
	twice := ToClinic(once)

	assert.True(t, once.Equal(twice))
	assert.Equal(t, once.Hour(), twice.Hour())
	assert.Equal(t, Location(), twice.Location())
}

func TestBackendRoundTrip(t *testing.T) {
	// Guayaquil = UTC-5, 14:00 UTC -> 09:00 местного
	instant := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)

	parsed := ParseBackend(FormatBackend(instant))

	assert.True(t, parsed.Equal(instant))
	assert.Equal(t, 9, parsed.Hour())
}

func TestParseBackendNaiveTimestamp(t *testing.T) {
	// Без таймзоны - трактуется как гражданское время клиники
	parsed := ParseBackend("2024-06-12T09:00:00")

	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.June, parsed.Month())
	assert.Equal(t, 12, parsed.Day())
	assert.Equal(t, 9, parsed.Hour())
	assert.Equal(t, Location(), parsed.Location())
}

func TestParseBackendMalformedDegradesToNow(t *testing.T) {
	before := Now()
	parsed := ParseBackend("not a timestamp")
	after := Now()

	assert.False(t, parsed.Before(before.Add(-time.Second)))
	assert.False(t, parsed.After(after.Add(time.Second)))
}

func TestParseBackendEmptyDegradesToNow(t *testing.T) {
	parsed := ParseBackend("")
	assert.WithinDuration(t, Now(), parsed, time.Second)
}

func TestInputRoundTrip(t *testing.T) {
	local := time.Date(2024, 6, 12, 14, 30, 0, 0, Location())

	formatted := FormatInput(local)
	require.Equal(t, "2024-06-12T14:30", formatted)

	parsed, err := ParseInput(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(local))
}

func TestParseInputRejectsGarbage(t *testing.T) {
	_, err := ParseInput("12/06/2024 14:30")
	assert.Error(t, err)
}

func TestDateKey(t *testing.T) {
	// 04:30 UTC 13-го = 23:30 местного 12-го
	instant := time.Date(2024, 6, 13, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-12", DateKey(instant))
}

func TestConfigureUnknownZone(t *testing.T) {
	err := Configure("Mars/Olympus_Mons")
	assert.Error(t, err)
	// Зона не должна была измениться
	assert.Equal(t, DefaultTimezone, Location().String())
}
