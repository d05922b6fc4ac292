// Package log 提供ZKID系统的日志级别接口定义
//
// 📊 **日志级别管理 (Log Level Management)**
//
// 本文件定义了标准的日志级别常量及其字符串转换，
// 供日志实现和配置层共同使用。
package log

// Level 日志级别类型
type Level string

// 日志级别常量
const (
	// DebugLevel 调试级别
	DebugLevel Level = "debug"

	// InfoLevel 信息级别
	InfoLevel Level = "info"

	// WarnLevel 警告级别
	WarnLevel Level = "warn"

	// ErrorLevel 错误级别
	ErrorLevel Level = "error"

	// FatalLevel 致命级别
	FatalLevel Level = "fatal"
)

// String 返回日志级别的字符串表示
func (l Level) String() string {
	return string(l)
}

// IsValid 检查日志级别是否有效
func (l Level) IsValid() bool {
	switch l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel:
		return true
	default:
		return false
	}
}
