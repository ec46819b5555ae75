package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name        string
		cursor      string
		wantHasMore bool
	}{
		{
			name:        "non-empty cursor means more pages",
			cursor:      "YXA9QUJDfDEyMw",
			wantHasMore: true,
		},
		{
			name:        "empty cursor means no more pages",
			cursor:      "",
			wantHasMore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationInfo(tt.cursor)
			assert.Equal(t, tt.cursor, p.NextCursor)
			assert.Equal(t, tt.wantHasMore, p.HasMore)
		})
	}
}
