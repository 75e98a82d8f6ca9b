package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	keys := Type("1.5")
	assert.Len(t, keys, 3)
	assert.Equal(t, ".", keys[1].String())
}

func TestCollect_FlattensBatches(t *testing.T) {
	one := func() tea.Msg { return 1 }
	two := func() tea.Msg { return 2 }

	assert.Nil(t, Collect(nil))
	assert.Equal(t, []tea.Msg{1, 2, 1}, Collect(tea.Batch(one, tea.Batch(two, one))))
}

func TestContainsInOrder(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		want     bool
	}{
		{name: "in order", expected: []string{"Item", "Outlet"}, want: true},
		{name: "reversed", expected: []string{"Outlet", "Item"}, want: false},
		{name: "missing", expected: []string{"Price"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsInOrder("Item_Weight ... Outlet_Type", tt.expected...))
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "Predict", StripANSI("\x1b[1;35mPredict\x1b[0m"))
}
