package config

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type CacheConfig struct {
	// AccessRulesTTLSeconds bounds how long a cached gamespace rule set may
	// be served after a rules update. Zero disables caching outright.
	AccessRulesTTLSeconds int `yaml:"access_rules_ttl_seconds"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Cache      CacheConfig      `yaml:"cache"`
}
