package logger

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log = zap.NewNop()
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

type ctxKey struct{}

// Initialize sets up the logger with the specified environment
func Initialize(env string) (*zap.Logger, error) {
	return InitializeWithWriter(env, nil)
}

// InitializeWithWriter sets up the logger with the specified environment and
// an optional extra sink (the CloudWatch Logs writer in production). The
// extra sink always receives JSON.
func InitializeWithWriter(env string, sink io.Writer) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if sink == nil {
		l, err := config.Build()
		if err != nil {
			return nil, err
		}
		Log = l
		return l, nil
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())

	var consoleEncoder zapcore.Encoder
	if env == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	sinkCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(sink), level)

	Log = zap.New(zapcore.NewTee(consoleCore, sinkCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return Log, nil
}

// RequestID returns a gin middleware that assigns every request an id,
// taken from X-Request-ID when the gateway already set one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), requestID))
		c.Next()
	}
}

// WithContext creates a new context with the given request ID
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// FromContext returns l annotated with the request id carried by ctx.
func FromContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if id := requestIDFrom(ctx); id != "" {
		return l.With(zap.String(RequestIDKey, id))
	}
	return l
}

func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.GetString(RequestIDKey)
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
