// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package utlog is the ambient structured-logging facade every
// package in this module logs through, mirroring the teacher's own
// small log.Logger/log.Helper wrapper (pe.File.logger, constructed in
// pe.New via log.NewHelper(log.NewFilter(...))). Where the teacher's
// own "github.com/saferwall/pe/log" package isn't part of the
// retrieved pack, this backs the same call-site shape
// (Debug/Warn/Error with key-value pairs) with
// github.com/rs/zerolog, the structured logger used elsewhere in the
// wider ecosystem this ut module borrows its ambient stack from.
package utlog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	base     zerolog.Logger
	baseOnce sync.Once
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func rootLogger() zerolog.Logger {
	baseOnce.Do(func() {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	})
	return base
}

// SetLevel adjusts the minimum level logged process-wide. Decoders
// default to zerolog.InfoLevel; CLI --verbose flips this to Debug.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Helper is a named logger for one component, the Go analogue of the
// teacher's *log.Helper fields (pe.File.logger).
type Helper struct {
	logger zerolog.Logger
}

// NewHelper returns a Helper tagged with component, e.g. "asn1" or
// "gzip".
func NewHelper(component string) *Helper {
	return &Helper{logger: rootLogger().With().Str("component", component).Logger()}
}

func (h *Helper) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

// Debug logs fine-grained decode progress, matching call sites like
// the teacher's pe.logger.Debugf for best-effort parse failures.
func (h *Helper) Debug(msg string, kv ...any) {
	h.event(h.logger.Debug(), msg, kv)
}

// Warn logs a recoverable anomaly, matching pe.logger.Warn/Warnf.
func (h *Helper) Warn(msg string, kv ...any) {
	h.event(h.logger.Warn(), msg, kv)
}

// Error logs a terminal failure, matching pe.logger.Errorf.
func (h *Helper) Error(msg string, kv ...any) {
	h.event(h.logger.Error(), msg, kv)
}
