package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"ifm-synth/ifm_config"
)

// All 全部配置索引
var All *AllConfig

var DefaultPath = "./config"
var DebugPath = "./base/config"

// InitConfig 初始化读取配置文件 config.yml，文件不存在时使用默认配置
func InitConfig() {
	c, err := Load(DefaultPath)
	if err != nil {
		panic(err)
	}
	All = c
}

// Load 从目录中读取config.yml，DEBUG=true时叠加debug.yml
func Load(dir string) (*AllConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	configType := "yml"
	v.SetConfigType(configType)

	// 读取配置
	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
		log.Printf("config.yml not found in %s, using defaults", dir)
	}

	//增量配置
	if os.Getenv("DEBUG") == "true" {
		newConfigPath := DebugPath + "/debug.yml"
		exists, _ := isExists(newConfigPath)
		if exists {
			v.SetConfigFile(newConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		}
	}

	// 监控配置文件变化
	if found {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("Config file changed: %s", e.Name)
		})
	}

	// 配置映射到结构体
	c := &AllConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Default 不读文件的默认配置
func Default() *AllConfig {
	v := viper.New()
	setDefaults(v)
	c := &AllConfig{}
	if err := v.Unmarshal(c); err != nil {
		panic(err)
	}
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_config.http_port", ifm_config.GinPort)
	v.SetDefault("logger_config.level", "info")
	v.SetDefault("logger_config.path", "logs")
	v.SetDefault("logger_config.max_age", 7)
	v.SetDefault("logger_config.rotation_time", 24)
	v.SetDefault("logger_config.rotation_size", 1024)
	v.SetDefault("solver_config.pool_capacity", ifm_config.PoolCapacity)
	v.SetDefault("solver_config.node_limit", ifm_config.NodeLimit)
	v.SetDefault("solver_config.max_iterations", ifm_config.MaxIterations)
	v.SetDefault("solver_config.bootstrap_threshold", ifm_config.BootstrapThreshold)
	v.SetDefault("solver_config.reduced_cost_epsilon", ifm_config.ReducedCostEpsilon)
	v.SetDefault("solver_config.simplex_tolerance", ifm_config.SimplexTolerance)
	v.SetDefault("solver_config.output_dir", ifm_config.OutputDir)
	v.SetDefault("solver_config.export_parquet", ifm_config.ExportParquet)
	v.SetDefault("solver_config.export_dot", ifm_config.ExportDot)
}

// AllConfig 全部配置文件
type AllConfig struct {
	Server ServerConfig `mapstructure:"server_config"`
	Logger LoggerConfig `mapstructure:"logger_config"`
	Solver SolverConfig `mapstructure:"solver_config"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	HttpPort  string `mapstructure:"http_port"`
	SentryDsn string `mapstructure:"sentry_dsn"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string        `mapstructure:"level"`
	Path         string        `mapstructure:"path"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
	RotationSize uint32        `mapstructure:"rotation_size"`
}

// SolverConfig 列生成求解相关配置
type SolverConfig struct {
	PoolCapacity       int     `mapstructure:"pool_capacity"`
	NodeLimit          int     `mapstructure:"node_limit"`
	MaxIterations      int     `mapstructure:"max_iterations"`
	BootstrapThreshold float64 `mapstructure:"bootstrap_threshold"`
	ReducedCostEpsilon float64 `mapstructure:"reduced_cost_epsilon"`
	SimplexTolerance   float64 `mapstructure:"simplex_tolerance"`
	OutputDir          string  `mapstructure:"output_dir"`
	ExportParquet      bool    `mapstructure:"export_parquet"`
	ExportDot          bool    `mapstructure:"export_dot"`
}

// 判断所给文件/文件夹是否存在
func isExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
