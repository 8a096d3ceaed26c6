package main

import (
	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/entities"
	"github.com/MayaTheShy/Starworld/pkg/scene"
	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// logSink stands in for the compositor bridge when the binary runs
// headless: every presentation call becomes a debug log line.
type logSink struct {
	next scene.Handle
}

func newLogSink() *logSink { return &logSink{} }

func (s *logSink) Create(name string, t spatial.Transform) scene.Handle {
	s.next++
	zap.L().Debug("scene: create", zap.String("name", name),
		zap.Uint64("handle", uint64(s.next)))
	return s.next
}

func (s *logSink) UpdateTransform(h scene.Handle, t spatial.Transform) {
	zap.L().Debug("scene: transform", zap.Uint64("handle", uint64(h)),
		zap.Float32("x", t.Position.X), zap.Float32("y", t.Position.Y),
		zap.Float32("z", t.Position.Z))
}

func (s *logSink) SetKind(h scene.Handle, kind entities.Kind) {
	zap.L().Debug("scene: kind", zap.Uint64("handle", uint64(h)),
		zap.String("kind", kind.String()))
}

func (s *logSink) SetColor(h scene.Handle, c entities.Color, alpha float32) {
	zap.L().Debug("scene: color", zap.Uint64("handle", uint64(h)))
}

func (s *logSink) SetDimensions(h scene.Handle, d spatial.Vec3) {
	zap.L().Debug("scene: dimensions", zap.Uint64("handle", uint64(h)))
}

func (s *logSink) SetModel(h scene.Handle, url string) {
	zap.L().Debug("scene: model", zap.Uint64("handle", uint64(h)), zap.String("url", url))
}

func (s *logSink) SetTexture(h scene.Handle, url string) {
	zap.L().Debug("scene: texture", zap.Uint64("handle", uint64(h)), zap.String("url", url))
}

func (s *logSink) Remove(h scene.Handle) {
	zap.L().Debug("scene: remove", zap.Uint64("handle", uint64(h)))
}
