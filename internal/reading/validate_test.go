package reading

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luvo-tarot/luvo/internal/api"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     api.ReadingRequest
		wantErr bool
		label   string
	}{
		{
			name: "valid",
			req:  api.ReadingRequest{Question: "Что меня ждет?", SpreadType: "three_card", Language: "ru"},
		},
		{
			name:    "missing question",
			req:     api.ReadingRequest{SpreadType: "three_card", Language: "ru"},
			wantErr: true,
			label:   "Вопрос",
		},
		{
			name:    "missing spread",
			req:     api.ReadingRequest{Question: "Что меня ждет?", Language: "ru"},
			wantErr: true,
			label:   "Расклад",
		},
		{
			name:    "wrong language",
			req:     api.ReadingRequest{Question: "Что меня ждет?", SpreadType: "three_card", Language: "en"},
			wantErr: true,
			label:   "Язык",
		},
		{
			name:    "question too long",
			req:     api.ReadingRequest{Question: strings.Repeat("я", 501), SpreadType: "three_card", Language: "ru"},
			wantErr: true,
			label:   "Вопрос",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Message(), tt.label)
		})
	}
}
