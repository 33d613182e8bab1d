package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
)

// observeLogs replaces the global logger and returns the recorded entries.
func observeLogs(t *testing.T, level zapcore.Level) *zapobserver.ObservedLogs {
	t.Helper()
	core, obs := zapobserver.New(level)
	prev := log.Logger
	log.Logger = log.NewZapLogger(zap.New(core))
	t.Cleanup(func() {
		log.Logger = prev
	})
	return obs
}

// messages concatenates every logged message.
func messages(obs *zapobserver.ObservedLogs) string {
	var b strings.Builder
	for _, entry := range obs.All() {
		b.WriteString(entry.Message)
		b.WriteString("\n")
	}
	return b.String()
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(addr valueobject.Address, action valueobject.Action) error {
	args := m.Called(addr, action)
	return args.Error(0)
}
