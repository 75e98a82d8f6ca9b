package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/schema"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyModelPath        = "model.path"
	KeyStaticSchema     = "model.static_schema"
	KeyAliasField       = "aliases.field"
	KeyAliasTable       = "aliases.table"
	KeyUnknownPolicy    = "aliases.unknown_policy"
	KeyOtherLabel       = "aliases.other_label"
	KeyDatabasePath     = "database.path"
	KeyHistoryEnabled   = "database.enabled"
	KeyCacheSize        = "cache.size"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
	KeyLogFile          = "logging.file"
	KeyLogMaxSizeMB     = "logging.max_size_mb"
	KeyLogMaxBackups    = "logging.max_backups"
	KeyTheme            = "tui.theme"
	defaultDatabasePath = "$HOME/.local/share/storecast/history.db"
)

// AliasEntry is one raw → canonical pair from the config file. A list is used
// instead of a map because viper lower-cases map keys.
type AliasEntry struct {
	Raw       string `mapstructure:"raw"`
	Canonical string `mapstructure:"canonical"`
}

// Settings is the resolved application configuration.
type Settings struct {
	ModelPath      string
	StaticSchema   []string
	AliasField     string
	Aliases        map[string]string
	UnknownPolicy  schema.UnknownPolicy
	OtherLabel     string
	DatabasePath   string
	Theme          string
	CacheSize      int
	HistoryEnabled bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyModelPath, "trained_sales_model.json")
	v.SetDefault(KeyAliasField, "Item_Fat_Content")
	v.SetDefault(KeyUnknownPolicy, string(schema.PolicyPassthrough))
	v.SetDefault(KeyOtherLabel, schema.DefaultOtherLabel)
	v.SetDefault(KeyDatabasePath, defaultDatabasePath)
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyCacheSize, 256)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyTheme, "default")
}

// Load reads Settings from v. A nil alias table means "use the built-in table".
func Load(v *viper.Viper) (Settings, error) {
	policy, err := schema.ParseUnknownPolicy(v.GetString(KeyUnknownPolicy))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	s := Settings{
		ModelPath:      ExpandPath(v.GetString(KeyModelPath)),
		StaticSchema:   v.GetStringSlice(KeyStaticSchema),
		AliasField:     v.GetString(KeyAliasField),
		UnknownPolicy:  policy,
		OtherLabel:     v.GetString(KeyOtherLabel),
		DatabasePath:   ExpandPath(v.GetString(KeyDatabasePath)),
		HistoryEnabled: v.GetBool(KeyHistoryEnabled),
		CacheSize:      v.GetInt(KeyCacheSize),
		Theme:          v.GetString(KeyTheme),
	}

	if strings.TrimSpace(s.ModelPath) == "" {
		return Settings{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyModelPath)
	}
	if s.CacheSize < 0 {
		return Settings{}, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyCacheSize)
	}

	if v.IsSet(KeyAliasTable) {
		var entries []AliasEntry
		if err := v.UnmarshalKey(KeyAliasTable, &entries); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyAliasTable, err)
		}
		s.Aliases = make(map[string]string, len(entries))
		for i, e := range entries {
			if e.Raw == "" || e.Canonical == "" {
				return Settings{}, fmt.Errorf("%w: %s[%d] needs raw and canonical", common.ErrInvalidConfig, KeyAliasTable, i)
			}
			s.Aliases[e.Raw] = e.Canonical
		}
	}

	return s, nil
}
