package config

import (
	"log"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type SmtpConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"fromName"`
	// 用户标识不是邮箱时，用该域名拼接收件地址
	UserDomain string `toml:"userDomain"`
}

// WebPushConfig VAPID 密钥对，不配置则推送通道整体降级为 no-op
type WebPushConfig struct {
	VapidPublicKey  string `toml:"vapidPublicKey"`
	VapidPrivateKey string `toml:"vapidPrivateKey"`
	Subscriber      string `toml:"subscriber"`
}

type DigestConfig struct {
	Enabled bool `toml:"enabled"`
	// 摘要任务的参考时区（每日 08:00 / 每周一 09:00 以此为准），默认本地时区
	Timezone string `toml:"timezone"`
}

type Config struct {
	MainConfig    `toml:"mainConfig"`
	MysqlConfig   `toml:"mysqlConfig"`
	JwtConfig     `toml:"jwtConfig"`
	LogConfig     `toml:"logConfig"`
	RedisConfig   `toml:"redisConfig"`
	SmtpConfig    `toml:"smtpConfig"`
	WebPushConfig `toml:"webPushConfig"`
	DigestConfig  `toml:"digestConfig"`
}

var config *Config

func LoadConfig() error {
	configPath := "configs/config_local.toml"
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 尝试使用默认设置", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
