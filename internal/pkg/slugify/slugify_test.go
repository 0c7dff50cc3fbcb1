package slugify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	require.Equal(t, "college-of-arts-and-science", Make("College of Arts and Science"))
	require.Equal(t, "ecole-polytechnique", Make("École Polytechnique"))
	require.Equal(t, "cs", Make("CS"))
	require.Equal(t, "fall-2026", Make("  Fall 2026  "))
	require.Equal(t, "animals-society", Make("Animals & Society"))
	require.Equal(t, "", Make(""))
}

func TestMakeTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 20)
	slug := Make(long)
	require.LessOrEqual(t, len(slug), MaxLen)
	require.False(t, strings.HasSuffix(slug, "-"))
}
