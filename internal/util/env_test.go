package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskshare/internal/util"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TASKSHARE_TEST_VALUE", "")
	assert.Equal(t, "fallback", util.EnvOrDefault("TASKSHARE_TEST_VALUE", "fallback"))

	t.Setenv("TASKSHARE_TEST_VALUE", "set")
	assert.Equal(t, "set", util.EnvOrDefault("TASKSHARE_TEST_VALUE", "fallback"))
}

func TestEnvIntOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "", want: 10},
		{value: "12", want: 12},
		{value: "twelve", want: 10},
	}
	for _, tt := range tests {
		t.Setenv("TASKSHARE_TEST_INT", tt.value)
		assert.Equal(t, tt.want, util.EnvIntOrDefault("TASKSHARE_TEST_INT", 10))
	}
}
