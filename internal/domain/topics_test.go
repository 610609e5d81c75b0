package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeTopics(t *testing.T) {
	tests := []struct {
		name   string
		public []string
		user   []string
		want   []string
	}{
		{"dedup and sort", []string{"B", "A"}, []string{"A", "C"}, []string{"A", "B", "C", "Others"}},
		{"empty", nil, nil, []string{"Others"}},
		{"stored sentinel dropped", []string{"Others", "Graphs"}, []string{"Others"}, []string{"Graphs", "Others"}},
		{"case sensitive", []string{"dp"}, []string{"DP"}, []string{"dp", "DP", "Others"}},
		{"locale order", []string{"Zebra", "apple", "Éclair"}, nil, []string{"apple", "Éclair", "Zebra", "Others"}},
		{"blank ignored", []string{" ", ""}, []string{"Trees"}, []string{"Trees", "Others"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeTopics(tt.public, tt.user))
		})
	}
}

func TestMergeTopicsDoesNotMutateInput(t *testing.T) {
	public := []string{"B", "A"}
	_ = MergeTopics(public, nil)
	assert.Equal(t, []string{"B", "A"}, public)
}

func TestIsRegistrableTopic(t *testing.T) {
	assert.True(t, IsRegistrableTopic("Sliding Window"))
	assert.False(t, IsRegistrableTopic("Others"))
	assert.False(t, IsRegistrableTopic("  "))
	assert.False(t, IsRegistrableTopic("???"))
}

func TestFindTopic(t *testing.T) {
	pool := []string{"Two Pointers", "Graphs"}

	got, ok := FindTopic(pool, "two  pointers")
	assert.True(t, ok)
	assert.Equal(t, "Two Pointers", got)

	_, ok = FindTopic(pool, "Trees")
	assert.False(t, ok)
	_, ok = FindTopic(pool, "???")
	assert.False(t, ok)
}
