package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer ServerConfigs    `toml:"api_server"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Notify    NotifyConfigs    `toml:"notify"`
	Lottery   LotteryConfigs   `toml:"lottery"`
	Heist     HeistConfigs     `toml:"heist"`
	Cooldown  CooldownConfigs  `toml:"cooldown"`
	Scheduler SchedulerConfigs `toml:"scheduler"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr string `toml:"addr"`
}

// NotifyConfigs selects the transport used to fan results out. Both
// drivers are best effort from the engine's point of view.
type NotifyConfigs struct {
	Driver string `toml:"driver"` // "redis" or "kafka"
	Topic  string `toml:"topic"`
}

type LotteryConfigs struct {
	// DrawWeekday is 0 (Sunday) to 6 (Saturday).
	DrawWeekday int    `toml:"draw_weekday"`
	DrawHour    int    `toml:"draw_hour"`
	DrawMinute  int    `toml:"draw_minute"`
	Timezone    string `toml:"timezone"`
}

func (l *LotteryConfigs) Location() *time.Location {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

type HeistConfigs struct {
	RecruitWindow    time.Duration `toml:"recruit_window"`
	SettleDelay      time.Duration `toml:"settle_delay"`
	InitiatorMinBank int64         `toml:"initiator_min_bank"`
	TargetMinBank    int64         `toml:"target_min_bank"`
	JoinMinBank      int64         `toml:"join_min_bank"`
	RobbedCooldown   time.Duration `toml:"robbed_cooldown"`
}

type CooldownConfigs struct {
	// Defaults maps a category to its default duration in seconds, used
	// when a community has no override for that category.
	Defaults map[string]int64 `toml:"defaults"`
}

type SchedulerConfigs struct {
	MaxWait time.Duration `toml:"max_wait"`
	MinWait time.Duration `toml:"min_wait"`
}

// Default returns the configuration the engine runs with when no value
// overrides it. The draw fires every Monday at midnight Tokyo time.
func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Host:     os.Getenv("MYSQL_HOST"),
			Port:     "3306",
			Database: "zetabot",
			User:     os.Getenv("MYSQL_USER"),
			Password: os.Getenv("MYSQL_PASSWORD"),
		},
		ApiServer: ServerConfigs{Host: "0.0.0.0", Port: "8080"},
		Redis:     RedisConfigs{Addr: "localhost:6379"},
		Kafka:     KafkaConfigs{Addr: "localhost:9092"},
		Notify:    NotifyConfigs{Driver: "redis", Topic: "economy.events"},
		Lottery: LotteryConfigs{
			DrawWeekday: int(time.Monday),
			DrawHour:    0,
			DrawMinute:  0,
			Timezone:    "Asia/Tokyo",
		},
		Heist: HeistConfigs{
			RecruitWindow:    60 * time.Second,
			SettleDelay:      5 * time.Second,
			InitiatorMinBank: 10000,
			TargetMinBank:    10000,
			JoinMinBank:      3000,
			RobbedCooldown:   12 * time.Hour,
		},
		Cooldown: CooldownConfigs{
			Defaults: map[string]int64{
				"work":      3600,
				"fish":      300,
				"rob":       1800,
				"crime":     3600,
				"bankrob":   86400,
				"beg":       300,
				"scratch":   600,
				"blackjack": 300,
			},
		},
		Scheduler: SchedulerConfigs{
			MaxWait: time.Hour,
			MinWait: 5 * time.Second,
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return cfg, nil
}
