package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/BBSCache/pkg/config"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testOwner      = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testBBS        = "0x663002C4E41E5d04860a76955A7B9B8234475952"
	testCache      = "0x35B2A3A2D5b4BaE5b8B4c5bC9a6D7E8F9A0B1C2D"
)

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML("../../config.example.yaml")
	if err != nil {
		t.Fatalf("failed to load YAML config: %v", err)
	}

	validateConfig(t, cfg, "YAML")
	require.NotNil(t, cfg.API)
	require.True(t, cfg.API.CORS.Enabled)
	require.Equal(t, "debug", cfg.Logging.GetComponentLevel("shortlink"))
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON("../../config.example.json")
	if err != nil {
		t.Fatalf("failed to load JSON config: %v", err)
	}

	validateConfig(t, cfg, "JSON")
}

func TestLoadFromTOML(t *testing.T) {
	cfg, err := LoadFromTOML("../../config.example.toml")
	if err != nil {
		t.Fatalf("failed to load TOML config: %v", err)
	}

	validateConfig(t, cfg, "TOML")
}

func TestLoadFromFile_YAML(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.yaml")
	if err != nil {
		t.Fatalf("failed to auto-load YAML config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected YAML")
}

func TestLoadFromFile_JSON(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.json")
	if err != nil {
		t.Fatalf("failed to auto-load JSON config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected JSON")
}

func TestLoadFromFile_TOML(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.toml")
	if err != nil {
		t.Fatalf("failed to auto-load TOML config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected TOML")
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFromFile("config.txt")
	require.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRPCURL, "http://override:8545")
	t.Setenv(EnvStep, "49")

	cfg, err := LoadFromFile("../../config.example.yaml")
	require.NoError(t, err)
	require.Equal(t, "http://override:8545", cfg.Chain.RPCURL)
	require.Equal(t, uint64(49), cfg.Sync.Step)
}

func TestLoadFromFile_EnvStepInvalid(t *testing.T) {
	t.Setenv(EnvStep, "forty-nine")

	_, err := LoadFromFile("../../config.example.yaml")
	require.ErrorContains(t, err, EnvStep)
}

func TestLoadFromFile_MissingStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := `
chain:
  rpc_url: "http://127.0.0.1:8545"
  private_key: "` + testPrivateKey + `"
  owner_address: "` + testOwner + `"
  bbs_address: "` + testBBS + `"
  cache_address: "` + testCache + `"
db:
  path: "./cache.sqlite"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "sync.step")
}

// validateConfig checks that the loaded config has expected values
func validateConfig(t *testing.T, cfg *config.Config, format string) {
	t.Helper()

	require.NotEmpty(t, cfg.Chain.RPCURL, "[%s] chain.rpc_url should not be empty", format)
	require.Equal(t, testOwner, cfg.Chain.OwnerAddress, "[%s] chain.owner_address", format)
	require.Equal(t, uint64(3212300), cfg.Chain.FromBlock, "[%s] chain.from_block", format)
	require.Equal(t, uint64(5000), cfg.Sync.Step, "[%s] sync.step", format)

	require.Equal(t, 1, cfg.ShortLink.MaxInFlight, "[%s] short_link.max_in_flight", format)
	require.Equal(t, 2500*time.Millisecond, cfg.ShortLink.MinInterval.Duration, "[%s] short_link.min_interval", format)

	require.Equal(t, config.DriverSQLite, cfg.DB.Driver, "[%s] db.driver", format)
	require.NotEmpty(t, cfg.DB.Path, "[%s] db.path should not be empty", format)
	require.NotEmpty(t, cfg.DB.JournalMode, "[%s] db.journal_mode should have default value", format)
	require.NotEmpty(t, cfg.DB.Synchronous, "[%s] db.synchronous should have default value", format)
}

func validConfig() *config.Config {
	return &config.Config{
		Chain: config.ChainConfig{
			RPCURL:       "https://test.com",
			PrivateKey:   testPrivateKey,
			OwnerAddress: testOwner,
			BBSAddress:   testBBS,
			CacheAddress: testCache,
		},
		Sync: config.SyncConfig{Step: 49},
		DB:   config.DatabaseConfig{Path: "./test.db"},
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.API = &config.APIConfig{CORS: config.CORSConfig{Enabled: true}}

	cfg.ApplyDefaults()

	require.Equal(t, "latest", cfg.Chain.Finality)
	require.Equal(t, 30*time.Second, cfg.Chain.CallTimeout.Duration)
	require.Equal(t, 8, cfg.Sync.Concurrency)
	require.Equal(t, 1, cfg.ShortLink.MaxInFlight)
	require.Equal(t, 2500*time.Millisecond, cfg.ShortLink.MinInterval.Duration)
	require.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	require.Equal(t, "WAL", cfg.DB.JournalMode)
	require.Equal(t, "NORMAL", cfg.DB.Synchronous)
	require.Equal(t, 5000, cfg.DB.BusyTimeout)
	require.Equal(t, 25, cfg.DB.MaxOpenConnections)
	require.Equal(t, ":8080", cfg.API.ListenAddress)
	require.Equal(t, []string{"*"}, cfg.API.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *config.Config) {},
		},
		{
			name:    "missing rpc_url",
			mutate:  func(cfg *config.Config) { cfg.Chain.RPCURL = "" },
			wantErr: "chain.rpc_url",
		},
		{
			name:    "missing private key",
			mutate:  func(cfg *config.Config) { cfg.Chain.PrivateKey = "" },
			wantErr: "chain.private_key",
		},
		{
			name:    "invalid cache address",
			mutate:  func(cfg *config.Config) { cfg.Chain.CacheAddress = "0x1234" },
			wantErr: "chain.cache_address",
		},
		{
			name: "signer is not the owner",
			mutate: func(cfg *config.Config) {
				cfg.Chain.OwnerAddress = "0x2089f8ef830f4414143686ed0dfac4f5bc0ace04"
			},
			wantErr: "expected owner",
		},
		{
			name:    "invalid finality",
			mutate:  func(cfg *config.Config) { cfg.Chain.Finality = "invalid" },
			wantErr: "chain.finality",
		},
		{
			name:    "zero step",
			mutate:  func(cfg *config.Config) { cfg.Sync.Step = 0 },
			wantErr: "sync.step",
		},
		{
			name:    "concurrent link writes",
			mutate:  func(cfg *config.Config) { cfg.ShortLink.MaxInFlight = 2 },
			wantErr: "short_link.max_in_flight must be 1",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(cfg *config.Config) { cfg.DB.Driver = config.DriverPostgres },
			wantErr: "db.dsn",
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *config.Config) { cfg.DB.Driver = "mysql" },
			wantErr: "db.driver",
		},
		{
			name: "unknown logging component",
			mutate: func(cfg *config.Config) {
				cfg.Logging = &config.LoggingConfig{ComponentLevels: map[string]string{"downloader": "debug"}}
			},
			wantErr: "unknown component",
		},
		{
			name: "invalid wal checkpoint mode",
			mutate: func(cfg *config.Config) {
				cfg.Maintenance = &config.MaintenanceConfig{WALCheckpointMode: "SOMETIMES"}
			},
			wantErr: "wal_checkpoint_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			cfg.ApplyDefaults()

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
