package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTCOffset(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"-05:00", -300},
		{"+05:30", 330},
		{"-05", -300},
		{"+00:00", 0},
		{"Z", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUTCOffset(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "5", "-xx:00", "+03:75", "+20:00"} {
		_, err := ParseUTCOffset(bad)
		assert.Error(t, err, "offset %q should be rejected", bad)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("NUDGE_TEST_INT", "12")
	t.Setenv("NUDGE_TEST_BAD_INT", "-3")
	t.Setenv("NUDGE_TEST_DURATION", "90m")
	t.Setenv("NUDGE_TEST_OFFSET", "-03:00")
	t.Setenv("NUDGE_TEST_BOOL", "nope")

	assert.Equal(t, 12, envInt("NUDGE_TEST_INT", 1))
	assert.Equal(t, 1, envInt("NUDGE_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Minute, envDuration("NUDGE_TEST_DURATION", time.Hour))
	assert.Equal(t, -180, envUTCOffset("NUDGE_TEST_OFFSET", 0))
	assert.True(t, envBool("NUDGE_TEST_BOOL", true))
	assert.Equal(t, "fallback", envString("NUDGE_TEST_UNSET", "fallback"))
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:            "Nudge",
		SchedulerSecret:    "secret",
		ReplyWebhookSecret: "whsec_x",
		GeminiAPIKey:       "key",
		ResendAPIKey:       "re_x",
		DBConnection:       "postgres://user:pw@host/db",
	}

	s := cfg.Sanitized()
	assert.Equal(t, "Nudge", s.AppName)
	assert.Empty(t, s.SchedulerSecret)
	assert.Empty(t, s.ReplyWebhookSecret)
	assert.Empty(t, s.GeminiAPIKey)
	assert.Empty(t, s.ResendAPIKey)
	assert.Empty(t, s.DBConnection)
}
