package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 日志模块
// 设计说明：
// 1. 使用zap作为结构化日志库（高性能、零分配）
// 2. 配置来自config.yaml的log段（level/format/output）
// 3. 提供包级默认Logger，模块内部通过logger.L()获取
//    （domain层的"跳过并记录"策略、HTTP请求日志都依赖它）

// Options 日志配置参数
// 与config.LogConfig字段一一对应（避免pkg层反向依赖internal/infrastructure/config）
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool   // 是否记录调用位置
}

// 包级默认Logger（未初始化时为无害的Nop，方便单元测试）
var global = zap.NewNop()

// Init 根据配置初始化全局Logger
// 学习要点：
// 1. zapcore.Core = Encoder(编码) + WriteSyncer(输出) + LevelEnabler(级别)
// 2. 生产环境用json格式便于采集，开发环境用console格式便于阅读
func Init(opts Options) (*zap.Logger, error) {
	// 1. 日志级别
	level := zapcore.InfoLevel
	if err := level.Set(opts.Level); err != nil {
		return nil, err
	}

	// 2. 编码器
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if opts.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	// 3. 输出目标
	var sink zapcore.WriteSyncer
	switch opts.Output {
	case "", "stdout":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(f)
	}

	var zapOpts []zap.Option
	if opts.EnableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}

	l := zap.New(zapcore.NewCore(encoder, sink, level), zapOpts...)
	global = l
	return l, nil
}

// L 获取全局Logger
func L() *zap.Logger {
	return global
}

// Sync 刷新缓冲的日志（main退出前调用）
func Sync() {
	_ = global.Sync()
}
