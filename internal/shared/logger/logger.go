package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New cria o logger do serviço.
// env "local" usa o formato de desenvolvimento; os demais, JSON de produção.
// level vazio mantém o padrão do formato escolhido.
func New(serviceName, env, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}

	// serviço e env entram como campos padrão
	return cfg.Build(
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	)
}
