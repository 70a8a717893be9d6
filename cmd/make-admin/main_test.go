package main

import (
	"bytes"
	"testing"

	"sweet-shop/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing email", nil, "--email is required"},
		{"unknown role", []string{"--email", "a@x.com", "--role", "owner"}, `unknown role "owner"`},
		{"unknown flag", []string{"--mail", "a@x.com"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_MissingEmailPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	require.NotPanics(t, func() {
		err := run([]string{"--role", "admin"}, &out)
		assert.EqualError(t, err, "--email is required")
	})

	assert.Contains(t, out.String(), "usage: make-admin")
	assert.Contains(t, out.String(), "--email")
	assert.Contains(t, out.String(), "--role")
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, run([]string{"--help"}, &out))
	assert.Contains(t, out.String(), "usage: make-admin")
}

func TestPrintUser(t *testing.T) {
	var out bytes.Buffer
	printUser(&out, &domain.User{
		Email:     "a@x.com",
		Role:      domain.RoleAdmin,
		FirstName: "Ada",
		LastName:  "Lovelace",
	})

	assert.Contains(t, out.String(), "EMAIL")
	assert.Contains(t, out.String(), "a@x.com")
	assert.Contains(t, out.String(), "admin")
	assert.Contains(t, out.String(), "Lovelace")
}
