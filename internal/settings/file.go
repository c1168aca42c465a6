package settings

import (
	"context"
	"errors"
	"os"
	"sync"

	"ceylon-tours-be/internal/logger"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FileProvider reads settings from a JSON file such as
//
//	{"payment": {"merchantId": "1221149", "merchantSecret": "...", "sandboxFlag": true}}
type FileProvider struct {
	path   string
	prefix string

	mu sync.RWMutex
	v  *viper.Viper
}

func NewFileProvider(path string) *FileProvider {
	p := &FileProvider{path: path, prefix: "payment."}
	if err := p.Reload(); err != nil {
		logger.L().Warn("settings file not loaded", zap.String("path", path), zap.Error(err))
	}
	return p
}

func (p *FileProvider) Name() string { return "file" }

// Reload re-reads the file. A missing file leaves the provider empty.
func (p *FileProvider) Reload() error {
	v := viper.New()
	v.SetConfigFile(p.path)
	v.SetConfigType("json")

	err := v.ReadInConfig()
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			v = viper.New()
			err = nil
		}
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.v = v
	p.mu.Unlock()
	return nil
}

func (p *FileProvider) Lookup(_ context.Context, key string) (string, bool) {
	p.mu.RLock()
	v := p.v
	p.mu.RUnlock()
	if v == nil {
		return "", false
	}

	full := p.prefix + key
	if !v.IsSet(full) {
		return "", false
	}
	return v.GetString(full), true
}
