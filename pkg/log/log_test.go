package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestIsRelevantField(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"correlation_id", true},
		{"rows", true},
		{"session_id", true},
		{"sessions", true},
		{"editor_email", true},
		{"user_agent", false},
		{"referer", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantField(tt.key))
		})
	}
}

func TestWithFields_Development(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	base := &logger{entry: L.(*logger).entry}

	filtered := base.WithFields(Fields{"user_agent": "curl"})
	assert.Same(t, base, filtered, "sem campos relevantes o logger não muda")

	kept := base.WithFields(Fields{"session_id": "abc", "user_agent": "curl"}).(*logger)
	assert.Equal(t, "abc", kept.entry.Data["session_id"])
	assert.NotContains(t, kept.entry.Data, "user_agent")
}

func TestWithFields_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	kept := L.WithFields(Fields{"user_agent": "curl"}).(*logger)

	assert.Equal(t, "curl", kept.entry.Data["user_agent"])
}
