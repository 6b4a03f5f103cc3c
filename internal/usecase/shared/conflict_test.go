package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	a := []string{"main.go", "util.go", "go.mod"}
	b := []string{"util.go", "main.go", "other.go"}

	assert.Equal(t, []string{"main.go", "util.go"}, Intersect(a, b))
}

func TestIntersect_Disjoint(t *testing.T) {
	assert.Nil(t, Intersect([]string{"a.go"}, []string{"b.go"}))
}

func TestIntersect_Empty(t *testing.T) {
	assert.Nil(t, Intersect(nil, []string{"a.go"}))
	assert.Nil(t, Intersect([]string{"a.go"}, nil))
}

func TestIntersect_Duplicates(t *testing.T) {
	got := Intersect([]string{"a.go", "a.go"}, []string{"a.go", "a.go"})
	assert.Equal(t, []string{"a.go"}, got)
}
