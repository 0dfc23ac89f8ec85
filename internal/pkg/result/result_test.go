package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess(t *testing.T) {
	r := Success(42)

	assert.True(t, r.Success())
	assert.False(t, r.Failure())
	assert.Equal(t, 42, r.Value())
	assert.Empty(t, r.Reason())
}

func TestFailure(t *testing.T) {
	r := Failure[int]("something went wrong")

	assert.False(t, r.Success())
	assert.True(t, r.Failure())
	assert.Equal(t, "something went wrong", r.Reason())
	// Value у failure — zero value типа
	assert.Equal(t, 0, r.Value())
}

func TestResult_StructValue(t *testing.T) {
	type info struct {
		Name string
	}

	r := Success(info{Name: "test"})
	assert.True(t, r.Success())
	assert.Equal(t, "test", r.Value().Name)

	f := Failure[info]("not found")
	assert.True(t, f.Failure())
	assert.Equal(t, info{}, f.Value())
}
