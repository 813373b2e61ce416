package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaultsToDevelopment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Profile)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Mail.Host)
	assert.Equal(t, 1025, cfg.Mail.Port)
	assert.Equal(t, 10*time.Second, cfg.OutboundTimeout)
	assert.Empty(t, cfg.AnalyticsDB)
	assert.False(t, cfg.StartupTime.IsZero())
}

func TestProfiles(t *testing.T) {
	cases := []struct {
		profile Profile
		debug   bool
		testing bool
		tls     bool
	}{
		{Development, true, false, false},
		{Production, false, false, true},
		{Staging, true, true, true},
		{Testing, false, true, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.profile), func(t *testing.T) {
			cfg, err := LoadFrom(map[string]string{
				"APP_ENV":    string(tc.profile),
				"SECRET_KEY": "s3cret",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.profile, cfg.Profile)
			assert.Equal(t, tc.debug, cfg.Debug)
			assert.Equal(t, tc.testing, cfg.Testing)
			assert.Equal(t, tc.tls, cfg.Mail.UseTLS)
		})
	}
}

func TestEnvironmentWinsOverProfile(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"APP_ENV":          "Production",
		"SECRET_KEY":       "s3cret",
		"PORT":             "9000",
		"MAIL_SERVER":      "mail.example.com",
		"MAIL_PORT":        "2525",
		"MAIL_USE_TLS":     "false",
		"LOG_FILE":         "",
		"OUTBOUND_TIMEOUT": "3s",
		"GITHUB_TOKEN":     "ghp_x",
	})
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Profile)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "mail.example.com:2525", cfg.Mail.Addr())
	assert.False(t, cfg.Mail.UseTLS)
	assert.Equal(t, "logs/app.log", cfg.LogFile, "empty variables keep the profile value")
	assert.Equal(t, 3*time.Second, cfg.OutboundTimeout)
	assert.Equal(t, "ghp_x", cfg.GitHubToken)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"APP_ENV":          "production",
		"PORT":             "70000",
		"OUTBOUND_TIMEOUT": "-1s",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 70000 out of range")
	assert.Contains(t, err.Error(), "SECRET_KEY must be set in production")
	assert.Contains(t, err.Error(), "outbound timeout must be positive")
}

func TestUnknownProfile(t *testing.T) {
	_, err := LoadFrom(map[string]string{"APP_ENV": "qa"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown profile "qa"`)
}

func TestMalformedValue(t *testing.T) {
	_, err := LoadFrom(map[string]string{"PORT": "eighty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestMailEnabled(t *testing.T) {
	cfg := Defaults(Testing)
	assert.False(t, cfg.MailEnabled())

	cfg = Defaults(Development)
	assert.True(t, cfg.MailEnabled())

	cfg.ContactEmail = ""
	assert.False(t, cfg.MailEnabled())
}
