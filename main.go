package main

import (
	"flag"
	"log"
	"os"
	"time"

	"pumpstation/handler"
	"pumpstation/model"
	"pumpstation/pkg/conf"
	"pumpstation/pkg/logger"
	"pumpstation/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

func main() {
	cfgPath := flag.String("c", "./pumpstation.yaml", "配置文件路径")
	flag.Parse()

	conf.InitConf(*cfgPath)
	logger.InitLogger("pumpstation")
	defer logger.Sync()

	db, err := openDB()
	if err != nil {
		logger.Logger.Errorf("failed to connect database: %v", err)
		return
	}

	svc := service.NewService(db, conf.Conf.GetString("catalog.path"))
	if err := svc.ReloadCatalog(); err != nil {
		logger.Logger.Warnf("启动时泵型目录为空: %v", err)
	}
	conf.OnChange(func(name string) {
		logger.Logger.Infof("配置文件 %s 已变更，重新加载泵型目录", name)
		_ = svc.ReloadCatalog()
	})

	r := SetupRouter(svc)
	_ = r.Run(conf.Conf.GetString("server.addr"))
}

// openDB database.enabled=false 时返回 nil，只使用 JSON 目录
func openDB() (*gorm.DB, error) {
	if !conf.Conf.GetBool("database.enabled") {
		return nil, nil
	}

	dsn := conf.Conf.GetString("database.dsn")
	var dialector gorm.Dialector
	switch conf.Conf.GetString("database.driver") {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormLogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormLogger.Warn,
			Colorful:      true,
		}),
	})
	if err != nil {
		return nil, err
	}

	if replicas := conf.Conf.GetStringSlice("database.replicas"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, r := range replicas {
			if conf.Conf.GetString("database.driver") == "postgres" {
				dialectors = append(dialectors, postgres.Open(r))
			} else {
				dialectors = append(dialectors, mysql.Open(r))
			}
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&model.Pump{}); err != nil {
		return nil, err
	}
	return db, nil
}

func SetupRouter(svc *service.Service) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{conf.Conf.GetString("frontend.host")}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	r.Use(cors.New(config))

	h := handler.NewHandler(svc, conf.Conf.GetInt("chart.points"))
	handler.RegisterRoutes(r, h)

	return r
}
