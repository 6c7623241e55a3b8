package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/village-blogger/internal/types"
)

func TestParseRecommendations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.Recommendation
	}{
		{
			name:  "two valid lines and noise",
			input: "A | morning\nB | evening\nnoise",
			want: []types.Recommendation{
				{Topic: "A", Timing: "morning"},
				{Topic: "B", Timing: "evening"},
			},
		},
		{
			name:  "empty reply",
			input: "",
			want:  []types.Recommendation{},
		},
		{
			name:  "no delimiter anywhere",
			input: "Вот темы:\nогород\nзаготовки",
			want:  []types.Recommendation{},
		},
		{
			name:  "single line",
			input: "Посадка картофеля | утро, выходные",
			want:  []types.Recommendation{{Topic: "Посадка картофеля", Timing: "утро, выходные"}},
		},
		{
			name:  "numbered and bold",
			input: "1. **Сенокос** | вечер, будни\n2) Баня | выходные",
			want: []types.Recommendation{
				{Topic: "Сенокос", Timing: "вечер, будни"},
				{Topic: "Баня", Timing: "выходные"},
			},
		},
		{
			name:  "split on first delimiter only",
			input: "Рыбалка | утро | выходные",
			want:  []types.Recommendation{{Topic: "Рыбалка", Timing: "утро | выходные"}},
		},
		{
			name:  "empty topic dropped",
			input: " | утро\nКуры |",
			want:  []types.Recommendation{{Topic: "Куры", Timing: ""}},
		},
		{
			name:  "crlf line endings",
			input: "A | morning\r\nB | evening\r\n",
			want: []types.Recommendation{
				{Topic: "A", Timing: "morning"},
				{Topic: "B", Timing: "evening"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecommendations(tt.input))
		})
	}
}
