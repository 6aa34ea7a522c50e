package server

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/content"
)

// Watch reloads the form copy from path on every write until ctx is done.
// The parent directory is watched so editors that replace the file by rename
// are picked up. A file that fails to parse leaves the previous copy active.
func (s *Server) Watch(ctx context.Context, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("server: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("server: watch %s: %w", path, err)
	}
	s.logger.Info("watching content", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.reload(target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher", zap.Error(err))
		}
	}
}

// reload skips empty reads, which editors and os.WriteFile produce between
// truncating and writing the file.
func (s *Server) reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("content reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	text, err := content.Parse(data, path)
	if err != nil {
		s.logger.Warn("content reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.SetContent(text)
	s.logger.Info("content reloaded", zap.String("path", path))
}
