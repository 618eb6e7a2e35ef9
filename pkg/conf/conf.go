package conf

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":12580")
	v.SetDefault("frontend.host", "http://localhost:3000")
	v.SetDefault("catalog.path", "./pumps.json")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "./logs")
	v.SetDefault("log.maxSize", 100)
	v.SetDefault("log.maxBackups", 7)
	v.SetDefault("log.maxAge", 30)
	v.SetDefault("chart.points", 50)
}

// InitConf 读取配置文件，文件不存在时使用默认值；环境变量 PUMPSTATION_* 优先
func InitConf(path string) {
	Conf = viper.New()
	setDefaults(Conf)
	Conf.SetConfigFile(path)
	Conf.SetEnvPrefix("pumpstation")
	Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Conf.AutomaticEnv()

	if err := Conf.ReadInConfig(); err != nil {
		log.Printf("读取配置文件 %s 失败，使用默认配置: %v", path, err)
	}
}

// OnChange 配置文件变化时回调
func OnChange(fn func(name string)) {
	Conf.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			fn(e.Name)
		}
	})
	Conf.WatchConfig()
}
