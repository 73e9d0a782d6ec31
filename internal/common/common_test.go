package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	assert.Equal(t, "", PkgAlias(""))
	assert.Equal(t, "convert", PkgAlias("common-tools/convert"))
	assert.Equal(t, "time", PkgAlias("time"))
}

func TestShortTypeName(t *testing.T) {
	assert.Equal(t, "convert.Employee", ShortTypeName("common-tools/convert", "Employee"))
	assert.Equal(t, "int", ShortTypeName("", "int"))
}

func TestSliceHelpers(t *testing.T) {
	assert.True(t, IsEmpty([]int(nil)))
	assert.False(t, IsEmpty([]int{1}))

	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]string{})
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
}
