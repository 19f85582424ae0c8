package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"low":    PriorityLow,
		"LOW":    PriorityLow,
		" High ": PriorityHigh,
		"medium": PriorityMedium,
		"":       PriorityMedium,
		"urgent": PriorityMedium,
		"Medium": PriorityMedium,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParsePriority(in), "input %q", in)
	}
}

func TestTaskValidate(t *testing.T) {
	require.NoError(t, Task{Title: "Buy groceries"}.Validate())
	require.NoError(t, Task{Title: strings.Repeat("é", MaxTitleLength)}.Validate())

	err := Task{Title: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTask))

	err = Task{Title: strings.Repeat("x", MaxTitleLength+1)}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTask))
}

func TestDescriptionText(t *testing.T) {
	assert.Equal(t, "", Task{}.DescriptionText())
	assert.Equal(t, "milk", Task{Description: StringPtr("milk")}.DescriptionText())
	assert.Nil(t, StringPtr("  "))
}
