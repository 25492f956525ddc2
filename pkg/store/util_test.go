package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestChunkRange(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		chunkSize int
		want      [][2]int
	}{
		{
			name:      "even split",
			total:     4,
			chunkSize: 2,
			want:      [][2]int{{0, 2}, {2, 4}},
		},
		{
			name:      "trailing partial chunk",
			total:     5,
			chunkSize: 2,
			want:      [][2]int{{0, 2}, {2, 4}, {4, 5}},
		},
		{
			name:      "zero chunk size covers all at once",
			total:     3,
			chunkSize: 0,
			want:      [][2]int{{0, 3}},
		},
		{
			name:      "empty total",
			total:     0,
			chunkSize: 2,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][2]int
			err := ChunkRange(tt.total, tt.chunkSize, func(start, end int) error {
				got = append(got, [2]int{start, end})
				return nil
			})
			if err != nil {
				t.Fatalf("ChunkRange() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChunkRange() windows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkRangeStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := ChunkRange(10, 2, func(start, end int) error {
		calls++
		if start == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ChunkRange() error = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}
