package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsLengthMismatch(t *testing.T) {
	pop := New("population")
	peripheral := New("peripheral")
	pop.AddJoin(peripheral, OneToMany, "id", "id")
	pop.Relationship = pop.Relationship[:0] // corrupt one vector

	err := pop.Validate()
	require.Error(t, err)
}

func TestValidateRejectsUpperTimestampAndMemory(t *testing.T) {
	pop := New("population")
	peripheral := New("peripheral")
	pop.AddJoin(peripheral, OneToMany, "id", "id")
	pop.UpperTimeStampsUsed[0] = "ts_upper"
	pop.Memory[0] = 7

	err := pop.Validate()
	require.Error(t, err)
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	pop := New("population")
	peripheral := New("peripheral")
	pop.AddJoin(peripheral, OneToMany, "id", "id")

	require.NoError(t, pop.Validate())
}

func TestEncodeIsDeterministic(t *testing.T) {
	build := func() *DataModel {
		pop := New("population")
		peripheral := New("peripheral")
		pop.AddJoin(peripheral, OneToMany, "id", "id")
		pop.Roles["a"] = RoleNumerical
		pop.Roles["b"] = RoleCategorical
		return pop
	}

	a := build().Encode()
	b := build().Encode()
	require.Equal(t, a, b)
}

func TestEncodeChangesOnEdit(t *testing.T) {
	pop := New("population")
	peripheral := New("peripheral")
	pop.AddJoin(peripheral, OneToMany, "id", "id")
	before := pop.Encode()

	pop.Horizon[0] = 3
	after := pop.Encode()

	require.NotEqual(t, before, after)
}
