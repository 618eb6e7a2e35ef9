package logger

import (
	"os"
	"path/filepath"

	"pumpstation/pkg/conf"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 未初始化时为 nop，测试中可直接使用
var Logger = zap.NewNop().Sugar()

// InitLogger 同时输出到控制台和按大小滚动的日志文件 <log.path>/<name>.log
func InitLogger(name string) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(conf.Conf.GetString("log.level"))); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	rotate := &lumberjack.Logger{
		Filename:   filepath.Join(conf.Conf.GetString("log.path"), name+".log"),
		MaxSize:    conf.Conf.GetInt("log.maxSize"),
		MaxBackups: conf.Conf.GetInt("log.maxBackups"),
		MaxAge:     conf.Conf.GetInt("log.maxAge"),
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotate), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	)

	Logger = zap.New(core, zap.AddCaller()).Sugar().With("service", name)
}

func Sync() {
	_ = Logger.Sync()
}
