package summarizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCharacterLimit(t *testing.T) {
	tests := []struct {
		limit   int
		wantErr bool
	}{
		{99, true},
		{100, false},
		{600, false},
		{5000, false},
		{5001, true},
	}
	for _, tt := range tests {
		err := ValidateCharacterLimit(tt.limit)
		assert.Equal(t, tt.wantErr, err != nil, "limit %d", tt.limit)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "")
	t.Setenv("SUMMARIZER_MODEL", "")
	t.Setenv("SUMMARIZER_TIMEOUT", "")
	t.Setenv("SUMMARIZER_BASE_URL", "")

	cfg := LoadConfig(DefaultOpenAIModel)
	assert.Equal(t, 600, cfg.CharacterLimit)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	t.Setenv("SUMMARIZER_CHAR_LIMIT", "20")
	assert.Equal(t, 600, LoadConfig("m").CharacterLimit)

	t.Setenv("SUMMARIZER_CHAR_LIMIT", "1500")
	t.Setenv("SUMMARIZER_MODEL", "custom")
	cfg = LoadConfig("m")
	assert.Equal(t, 1500, cfg.CharacterLimit)
	assert.Equal(t, "custom", cfg.Model)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{CharacterLimit: 600, Model: "m", MaxTokens: 10, Timeout: time.Second}
	assert.NoError(t, valid.Validate())

	noModel := valid
	noModel.Model = ""
	assert.Error(t, noModel.Validate())

	noTokens := valid
	noTokens.MaxTokens = 0
	assert.Error(t, noTokens.Validate())

	noTimeout := valid
	noTimeout.Timeout = 0
	assert.Error(t, noTimeout.Validate())
}
