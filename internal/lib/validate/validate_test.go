package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `validate:"required"`
	Port int    `validate:"min=0,max=65535"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(&sample{Name: "a", Port: 27015}))

	err := Struct(&sample{Port: 70000})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Name: required")
	require.Contains(t, err.Error(), "Port: max=65535")
}
