package domain

import (
	"testing"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	m, err := NewMember(" emp-1 ", "u1", " Grace ", " Grace@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, Member{EmployerID: "emp-1", UserID: "u1", Name: "Grace", Email: "grace@example.com"}, m)

	_, err = NewMember("emp-1", " ", "", "")
	assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))
}

func TestUserIDs(t *testing.T) {
	assert.Equal(t, []string{"u1", "u2"}, UserIDs([]Member{{UserID: "u1"}, {UserID: "u2"}}))
	assert.Empty(t, UserIDs(nil))
}
