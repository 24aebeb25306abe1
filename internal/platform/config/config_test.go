package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Empty(t, cfg.BotToken)
	assert.Equal(t, "https://discord.com/api/v10", cfg.Gateway.APIURL)
	assert.Equal(t, ":8080", cfg.Gateway.HTTPAddr)
	assert.Empty(t, cfg.Staff.UserIDs)
	assert.Equal(t, "Corey LTS (CEO)", cfg.Staff.ContactName)
	assert.Equal(t, "Adam Black (Support)", cfg.Staff.SupportContactName)
	assert.Equal(t, "hirebot.audit", cfg.Audit.Topic)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)

	require.Len(t, cfg.Blocked, 1)
	assert.Equal(t, BlockedLocation{Name: "Florida", Abbreviation: "FL"}, cfg.Blocked[0])
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token-1")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STAFF_USER_IDS", "staff-1, staff-2 ,")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("REDIS_DIAL_TIMEOUT", "10s")

	cfg := FromEnv()

	assert.Equal(t, "token-1", cfg.BotToken)
	assert.Equal(t, ":9090", cfg.Gateway.HTTPAddr)
	assert.Equal(t, []string{"staff-1", "staff-2"}, cfg.Staff.UserIDs)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Audit.Brokers)
	assert.Equal(t, 10*time.Second, cfg.Redis.DialTimeout)
}

func TestParseBlocked(t *testing.T) {
	cases := []struct {
		input string
		want  []BlockedLocation
	}{
		{"Florida:FL", []BlockedLocation{{Name: "Florida", Abbreviation: "FL"}}},
		{"Florida:FL, New York:NY", []BlockedLocation{
			{Name: "Florida", Abbreviation: "FL"},
			{Name: "New York", Abbreviation: "NY"},
		}},
		{"Quebec", []BlockedLocation{{Name: "Quebec"}}},
		{"", nil},
		{" , ", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseBlocked(tc.input), "input %q", tc.input)
	}
}
