package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/tilecon/config"
)

const (
	defaultLogFile = "logs/tilecon.log"
	maxLogBackups  = 3
)

// setupLogging sends the standard logger to a size-rotated file when debug is
// enabled and discards it otherwise. Console backends own stdout, so nothing
// is ever logged there. Each run starts a fresh file; the previous run is kept
// as a backup. Returns the file to close on exit, or nil
func setupLogging(cfg config.LogConfig) io.Closer {
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return nil
	}

	name := cfg.File
	if name == "" {
		name = defaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	lj := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    max(cfg.MaxSizeMB, 1),
		MaxBackups: maxLogBackups,
	}
	if info, err := os.Stat(name); err == nil && info.Size() > 0 {
		if err := lj.Rotate(); err != nil {
			log.SetOutput(io.Discard)
			return nil
		}
	}
	log.SetOutput(lj)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("[main] logging to %s", name)
	return lj
}
