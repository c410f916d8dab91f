package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
mysql:
  host: db.internal
business:
  withdrawal_fee_percent: "2.5"
  min_deposit: "30"
kafka:
  brokers: ["k1:9092", "k2:9092"]
admin:
  token: tok
`), 0o600))

	cfg := LoadConfig(path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, "2.5", cfg.Business.WithdrawalFeePercent.String())
	assert.Equal(t, "30", cfg.Business.MinDeposit.String())
	assert.Equal(t, "50", cfg.Business.MinWithdrawal.String())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "deposit.completed", cfg.Kafka.Topic.DepositCompleted)
	assert.Equal(t, "tok", cfg.Admin.Token)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TRADEDESK_MYSQL_HOST", "from-env")
	t.Setenv("TRADEDESK_SESSION_SECRET", "env-secret")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, "from-env", cfg.MySQL.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Session.MaxAgeDays)
	assert.Equal(t, "env-secret", cfg.Session.Secret)
}
